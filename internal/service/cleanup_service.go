package service

import (
	"context"
	"time"

	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/pkg/session"
)

type ICleanupService interface {
	// Run evicts idle sessions every interval until ctx is done.
	Run(ctx context.Context)
	RunOnce() int
}

// EvictionRecorder is told how many sessions each sweep removed.
type EvictionRecorder interface {
	SessionsEvicted(n int)
}

type cleanupService struct {
	sessions *session.Store
	ttl      time.Duration
	interval time.Duration
	recorder EvictionRecorder
	logger   logger.ILogger
}

func NewCleanupService(sessions *session.Store, ttl, interval time.Duration, recorder EvictionRecorder, log logger.ILogger) ICleanupService {
	return &cleanupService{
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
		recorder: recorder,
		logger:   log,
	}
}

func (s *cleanupService) RunOnce() int {
	n := s.sessions.EvictIdle(s.ttl)
	if s.recorder != nil && n > 0 {
		s.recorder.SessionsEvicted(n)
	}
	if n > 0 {
		s.logger.Info("SESSION", "Idle sessions evicted", map[string]interface{}{
			"evicted":   n,
			"remaining": s.sessions.Len(),
		})
	}
	return n
}

func (s *cleanupService) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}
