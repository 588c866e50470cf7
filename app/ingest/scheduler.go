package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler periodically re-triggers ingestion sweeps. The orchestrator's
// single-flight gate makes an overlapping trigger a no-op, so a slow sweep is
// never doubled up.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

func NewScheduler(orchestrator *Orchestrator, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (s *Scheduler) Start() {
	if s.interval <= 0 {
		slog.Debug("Periodic ingestion disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if !s.orchestrator.Start() {
					slog.Debug("Skipping scheduled sweep, previous sweep still running")
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
