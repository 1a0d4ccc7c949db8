// Package ports defines the contracts that connect the core to adapters.
package ports

import (
	"context"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
)

// RateLimiter exposes sliding-window admission control together with the
// introspection and maintenance operations built on the same state. The
// caller supplies now so admission is testable without a real clock.
type RateLimiter interface {
	Admit(ctx context.Context, key string, now time.Time) (domain.Decision, error)
	Stats(ctx context.Context, now time.Time) (domain.Stats, error)
	ResetClient(ctx context.Context, key string) (bool, error)
	ResetAll(ctx context.Context) error
	Sweep(ctx context.Context, now time.Time) (int, error)
}
