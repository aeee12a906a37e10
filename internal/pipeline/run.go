package pipeline

import "time"

// State labels the orchestrator's position within a run.
type State string

const (
	StateFetching   State = "FETCHING"
	StateFiltering  State = "FILTERING"
	StateProcessing State = "PROCESSING"
	StateRendering  State = "RENDERING"
	StateDelivering State = "DELIVERING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

// Run summarizes one pipeline execution. It exists only for the duration
// of the run and is never persisted.
type Run struct {
	ID               string
	State            State
	StartedAt        time.Time
	FinishedAt       time.Time
	ItemsConsidered  int
	ItemsAccepted    int
	ItemsProcessed   int
	BlocksProduced   int
	ArtifactPath     string
	DeliveryAttempts int
}

// Duration reports how long the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Delivered reports whether the run produced and delivered an artifact.
func (r *Run) Delivered() bool {
	return r.State == StateDone && r.ArtifactPath != ""
}
