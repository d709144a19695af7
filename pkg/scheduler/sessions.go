package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/blackjacktrainer/internal/logging"
)

// SessionEvictor closes trainer sessions nobody has touched for a while
type SessionEvictor interface {
	EvictIdle(ctx context.Context) int
}

// AddSessionEviction registers a task that evicts idle trainer sessions
// every interval
func AddSessionEviction(s *Scheduler, evictor SessionEvictor, interval time.Duration, logger *logging.Logger) {
	if logger == nil {
		logger = logging.Default
	}
	s.AddTask("session_eviction", interval, func(ctx context.Context) error {
		if evicted := evictor.EvictIdle(ctx); evicted > 0 {
			logger.Info("Evicted %d idle trainer sessions", evicted)
		}
		return nil
	})
}
