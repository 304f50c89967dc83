package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davarch/lambda-api-ci/internal/domain"
)

type seen struct {
	id     string
	status domain.ExecutionStatus
}

// PollUseCase reports pipeline executions whose id or status changed since
// the previous poll.
type PollUseCase struct {
	pipelines domain.PipelineClient
	note      domain.Notifier
	cache     domain.StatusCache

	now  func() time.Time
	last map[domain.PipelineRef]seen
}

func NewPollUseCase(pipelines domain.PipelineClient, note domain.Notifier, cache domain.StatusCache) *PollUseCase {
	return &PollUseCase{
		pipelines: pipelines, note: note, cache: cache,
		now:  time.Now,
		last: make(map[domain.PipelineRef]seen),
	}
}

// PollOnce returns whether the execution changed. A failed cache write or
// notification is returned but does not undo the change.
func (uc *PollUseCase) PollOnce(ctx context.Context, ref domain.PipelineRef) (bool, error) {
	e, err := uc.pipelines.LatestExecution(ctx, ref)
	if err != nil {
		return false, err
	}

	prev, ok := uc.last[ref]
	if ok && prev.id == e.ID && prev.status == e.Status {
		return false, nil
	}

	var errs []error
	if err := uc.cache.Write(ctx, domain.Snapshot{
		Pipeline: ref, Execution: e, Retrieved: uc.now().Unix(),
	}); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}

	// the first poll of a finished execution is state, not news
	if ok || e.Status == domain.StatusInProgress || e.Status == domain.StatusFailed {
		if err := uc.note.Notify(ctx, titleFor(e.Status), bodyFor(ref, e), e.URL); err != nil {
			errs = append(errs, fmt.Errorf("notify: %w", err))
		}
	}

	uc.last[ref] = seen{e.ID, e.Status}
	return true, errors.Join(errs...)
}

func titleFor(s domain.ExecutionStatus) string {
	switch s {
	case domain.StatusSucceeded:
		return "✅ deploy: succeeded"
	case domain.StatusFailed:
		return "❌ deploy: failed"
	case domain.StatusInProgress:
		return "▶️ deploy: in progress"
	case domain.StatusStopped:
		return "⛔ deploy: stopped"
	case domain.StatusSuperseded:
		return "⏭️ deploy: superseded"
	default:
		return "ℹ️ deploy: " + string(s)
	}
}

func bodyFor(ref domain.PipelineRef, e domain.Execution) string {
	body := ref.Name
	if e.ID != "" {
		body += " #" + shortID(e.ID)
	}
	if e.Revision != "" {
		body += " (" + shortID(e.Revision) + ")"
	}
	return body
}

func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
