package domain

import "time"

type ExecutionStatus string

const (
	StatusInProgress ExecutionStatus = "InProgress"
	StatusSucceeded  ExecutionStatus = "Succeeded"
	StatusFailed     ExecutionStatus = "Failed"
	StatusStopped    ExecutionStatus = "Stopped"
	StatusSuperseded ExecutionStatus = "Superseded"
	StatusOther      ExecutionStatus = "Other"
)

// Execution is one run of a deployed pipeline as reported by CodePipeline.
type Execution struct {
	ID       string
	Pipeline string
	Status   ExecutionStatus
	Revision string
	Started  time.Time
	URL      string
}

type PipelineRef struct {
	Name string
}

type Snapshot struct {
	Pipeline  PipelineRef
	Execution Execution
	Retrieved int64
}
