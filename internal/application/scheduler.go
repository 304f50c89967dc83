package application

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/davarch/lambda-api-ci/internal/domain"
	"go.uber.org/zap"
)

type Scheduler struct {
	log       *zap.Logger
	use       *PollUseCase
	every     time.Duration
	pauseFile string

	mu   sync.RWMutex
	refs []domain.PipelineRef
}

func NewScheduler(l *zap.Logger, u *PollUseCase, refs []domain.PipelineRef, every time.Duration, pauseFile string) *Scheduler {
	return &Scheduler{
		log: l, use: u, refs: refs, every: every, pauseFile: pauseFile,
	}
}

func (s *Scheduler) UpdateRefs(refs []domain.PipelineRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = refs
	s.log.Info("config reloaded", zap.Int("pipelines", len(refs)))
}

func (s *Scheduler) Refs() []domain.PipelineRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]domain.PipelineRef, len(s.refs))
	copy(refs, s.refs)
	return refs
}

func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.every)
	defer t.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.isPaused() {
		s.log.Debug("paused: skipping poll")
		return
	}
	s.runAll(ctx)
}

func (s *Scheduler) isPaused() bool {
	if s.pauseFile == "" {
		return false
	}
	_, err := os.Stat(s.pauseFile)
	return err == nil
}

func (s *Scheduler) runAll(ctx context.Context) {
	for _, ref := range s.Refs() {
		changed, err := s.use.PollOnce(ctx, ref)
		if err != nil {
			s.log.Warn("poll failed",
				zap.String("pipeline", ref.Name),
				zap.Bool("changed", changed),
				zap.Error(err),
			)
			continue
		}
		if changed {
			s.log.Debug("execution changed", zap.String("pipeline", ref.Name))
		}
	}
}
