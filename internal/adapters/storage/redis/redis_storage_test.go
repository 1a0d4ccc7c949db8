package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	mr := miniredis.RunT(t)
	storage, err := New(Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestStorage_RequiresAddress(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestStorage_TakeEnforcesLimit(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	first, err := storage.Take(ctx, "1.2.3.4", now, time.Second, 2)
	require.NoError(t, err)
	require.True(t, first.Admitted)
	require.Equal(t, 1, first.Count)

	second, err := storage.Take(ctx, "1.2.3.4", now, time.Second, 2)
	require.NoError(t, err)
	require.True(t, second.Admitted)
	require.Equal(t, 2, second.Count)

	third, err := storage.Take(ctx, "1.2.3.4", now, time.Second, 2)
	require.NoError(t, err)
	require.False(t, third.Admitted)
	require.Equal(t, 2, third.Count)
}

func TestStorage_TakeAdmitsOnceEntriesAge(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	window := time.Second

	first, err := storage.Take(ctx, "1.2.3.4", now, window, 1)
	require.NoError(t, err)
	require.True(t, first.Admitted)

	rejected, err := storage.Take(ctx, "1.2.3.4", now.Add(window-time.Millisecond), window, 1)
	require.NoError(t, err)
	require.False(t, rejected.Admitted)

	// An entry aged exactly one window is stale.
	boundary, err := storage.Take(ctx, "1.2.3.4", now.Add(window), window, 1)
	require.NoError(t, err)
	require.True(t, boundary.Admitted)
	require.Equal(t, 1, boundary.Count)
}

func TestStorage_CountsAggregatesWithoutPruning(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	for i := 0; i < 2; i++ {
		_, err := storage.Take(ctx, "a", now, time.Minute, 10)
		require.NoError(t, err)
	}
	_, err := storage.Take(ctx, "b", now, time.Minute, 10)
	require.NoError(t, err)

	usage, err := storage.Counts(ctx, now, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, usage.ActiveClients)
	require.Equal(t, 3, usage.TotalRecentRequests)

	// Later snapshots exclude everything but must leave the logs intact.
	usage, err = storage.Counts(ctx, now.Add(2*time.Minute), time.Minute)
	require.NoError(t, err)
	require.Equal(t, 0, usage.ActiveClients)

	usage, err = storage.Counts(ctx, now, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, usage.ActiveClients)
	require.Equal(t, 3, usage.TotalRecentRequests)
}

func TestStorage_RemoveReportsExistence(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	_, err := storage.Take(ctx, "1.2.3.4", now, time.Minute, 5)
	require.NoError(t, err)

	existed, err := storage.Remove(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = storage.Remove(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestStorage_ClearDropsEverything(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	for _, key := range []string{"a", "b", "c"} {
		_, err := storage.Take(ctx, key, now, time.Minute, 5)
		require.NoError(t, err)
	}

	require.NoError(t, storage.Clear(ctx))

	usage, err := storage.Counts(ctx, now, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 0, usage.ActiveClients)
}

func TestStorage_SweepDropsStaleClients(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	window := time.Second

	_, err := storage.Take(ctx, "idle", now, window, 5)
	require.NoError(t, err)
	_, err = storage.Take(ctx, "active", now.Add(900*time.Millisecond), window, 5)
	require.NoError(t, err)

	removed, err := storage.Sweep(ctx, now.Add(time.Second), window)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	usage, err := storage.Counts(ctx, now.Add(time.Second), window)
	require.NoError(t, err)
	require.Equal(t, 1, usage.ActiveClients)
	require.Equal(t, 1, usage.TotalRecentRequests)
}
