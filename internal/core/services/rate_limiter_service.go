package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

// RateLimiterService applies the sliding-window admission policy on top of a
// window-log storage. It is constructed once at startup and shared by the
// HTTP layer, the admin handlers and the background sweeper.
type RateLimiterService struct {
	storage ports.Storage
	policy  domain.Policy
}

var _ ports.RateLimiter = (*RateLimiterService)(nil)

// NewRateLimiterService validates the policy and creates the service.
func NewRateLimiterService(storage ports.Storage, policy domain.Policy) (*RateLimiterService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if policy.Window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", policy.Window)
	}
	if policy.MaxRequests <= 0 {
		return nil, fmt.Errorf("max requests must be positive, got %d", policy.MaxRequests)
	}
	return &RateLimiterService{storage: storage, policy: policy}, nil
}

// Admit decides whether the request identified by key may proceed at now.
// A rejection is a normal outcome carried in the decision; the error return
// is reserved for storage failures. While the limiter is disabled every call
// is admitted and nothing is tracked.
func (s *RateLimiterService) Admit(ctx context.Context, key string, now time.Time) (domain.Decision, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Decision{}, fmt.Errorf("client key is required")
	}

	if !s.policy.Enabled {
		return domain.Decision{Allowed: true, Unlimited: true}, nil
	}

	state, err := s.storage.Take(ctx, key, now, s.policy.Window, s.policy.MaxRequests)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("record request for %q: %w", key, err)
	}

	decision := domain.Decision{
		Allowed: state.Admitted,
		Limit:   s.policy.MaxRequests,
		ResetAt: now.Add(s.policy.Window),
	}
	if state.Admitted {
		decision.Remaining = s.policy.MaxRequests - state.Count
		return decision, nil
	}

	// The hint is always the full window, not the time until the oldest
	// entry expires.
	decision.RetryAfterSeconds = ceilSeconds(s.policy.Window)
	return decision, nil
}

// Stats reports an aggregate snapshot. Stale entries are excluded from the
// counts without being removed from storage.
func (s *RateLimiterService) Stats(ctx context.Context, now time.Time) (domain.Stats, error) {
	usage, err := s.storage.Counts(ctx, now, s.policy.Window)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("count recent requests: %w", err)
	}
	return domain.Stats{
		Enabled:             s.policy.Enabled,
		ActiveClients:       usage.ActiveClients,
		TotalRecentRequests: usage.TotalRecentRequests,
		Window:              s.policy.Window,
		MaxRequests:         s.policy.MaxRequests,
	}, nil
}

// ResetClient removes all recorded requests for one client, reporting
// whether any existed.
func (s *RateLimiterService) ResetClient(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, fmt.Errorf("client key is required")
	}
	return s.storage.Remove(ctx, key)
}

// ResetAll clears every client's state.
func (s *RateLimiterService) ResetAll(ctx context.Context) error {
	return s.storage.Clear(ctx)
}

// Sweep prunes all clients and drops the ones left empty, bounding memory
// growth from clients that stopped sending requests.
func (s *RateLimiterService) Sweep(ctx context.Context, now time.Time) (int, error) {
	return s.storage.Sweep(ctx, now, s.policy.Window)
}

func ceilSeconds(d time.Duration) int {
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return int(secs)
}
