// Package scheduler owns the cadence of background sync passes.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	robfigcron "github.com/robfig/cron/v3"

	syncengine "missionctl/internal/sync"
)

// Service runs the synchronizer on a cron cadence.
type Service struct {
	scheduler *robfigcron.Cron
	syncer    *syncengine.Syncer
	spec      string

	mu      sync.Mutex
	running bool
}

func NewService(spec string, syncer *syncengine.Syncer) *Service {
	return &Service{
		scheduler: robfigcron.New(),
		syncer:    syncer,
		spec:      spec,
	}
}

// Start registers the sync pass and begins the scheduler.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	_, err := s.scheduler.AddFunc(s.spec, func() {
		s.runPass(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.spec, err)
	}

	s.scheduler.Start()
	s.running = true
	return nil
}

// Stop halts the scheduler. In-flight passes finish on their own.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.running = false
}

// TriggerNow runs one sync pass immediately, outside the schedule.
func (s *Service) TriggerNow(ctx context.Context) (syncengine.Result, error) {
	return s.syncer.Run(ctx)
}

func (s *Service) runPass(ctx context.Context) {
	res, err := s.syncer.Run(ctx)
	if err != nil {
		slog.Error("scheduled sync pass failed", "error", err)
		return
	}
	slog.Info("sync pass complete", "created", res.Created, "updated", res.Updated)
}
