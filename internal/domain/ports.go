package domain

import "context"

type PipelineClient interface {
	LatestExecution(ctx context.Context, ref PipelineRef) (Execution, error)
}

type Notifier interface {
	Notify(ctx context.Context, title, body, url string) error
}

type StatusCache interface {
	Write(ctx context.Context, s Snapshot) error
}
