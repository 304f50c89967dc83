package domain

import (
	"context"
)

type MockPipelines struct {
	Execution Execution
	Err       error
	Called    int
}

func (m *MockPipelines) LatestExecution(ctx context.Context, ref PipelineRef) (Execution, error) {
	m.Called++
	if m.Err != nil {
		return Execution{}, m.Err
	}
	return m.Execution, nil
}

type MockNotifier struct {
	Messages []string
	Err      error
}

func (n *MockNotifier) Notify(ctx context.Context, title, body, url string) error {
	n.Messages = append(n.Messages, title+"|"+body+"|"+url)
	return n.Err
}

type MockCache struct {
	Snapshots []Snapshot
	Err       error
}

func (c *MockCache) Write(ctx context.Context, s Snapshot) error {
	if c.Err != nil {
		return c.Err
	}
	c.Snapshots = append(c.Snapshots, s)
	return nil
}
