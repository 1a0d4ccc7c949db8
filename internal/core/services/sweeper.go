package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

// Sweeper periodically drops clients whose request windows have gone idle,
// so abandoned keys do not accumulate in storage.
type Sweeper struct {
	limiter  ports.RateLimiter
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewSweeper(limiter ports.RateLimiter, interval time.Duration, log *slog.Logger) (*Sweeper, error) {
	if limiter == nil {
		return nil, errors.New("sweeper: rate limiter is required")
	}
	if interval <= 0 {
		return nil, errors.New("sweeper: interval must be positive")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{limiter: limiter, interval: interval, log: log, now: time.Now}, nil
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.limiter.Sweep(ctx, s.now())
			if err != nil {
				s.log.Error("rate limit sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				s.log.Info("rate limit sweep removed idle clients", "clients", removed)
			}
		}
	}
}
