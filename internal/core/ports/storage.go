package ports

import (
	"context"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
)

// Storage holds the per-client request logs behind the sliding window.
// Implementations must make Take atomic per key: prune, threshold check and
// append happen as one unit, so two concurrent callers can never both claim
// the last slot.
type Storage interface {
	// Take prunes timestamps that have aged the full window (an entry aged
	// exactly window is stale) and records now for key when the pruned count
	// is still below limit. The pruned log is persisted on both outcomes.
	Take(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (domain.WindowState, error)

	// Counts reports aggregate usage with a transient prune; it must not
	// mutate the stored logs.
	Counts(ctx context.Context, now time.Time, window time.Duration) (domain.Usage, error)

	// Remove drops one client's log entirely, reporting whether it existed.
	Remove(ctx context.Context, key string) (bool, error)

	// Clear drops all logs.
	Clear(ctx context.Context) error

	// Sweep prunes every log and deletes clients left empty, returning the
	// number of clients removed.
	Sweep(ctx context.Context, now time.Time, window time.Duration) (int, error)
}
