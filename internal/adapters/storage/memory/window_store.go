// Package memory implements the window-log storage in process memory.
package memory

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

const shardCount = 16

// Store keeps one request log per client, striped across shards so distinct
// clients rarely contend on the same lock. State lives for the process
// lifetime; nothing is persisted.
type Store struct {
	shards [shardCount]*shard
}

type shard struct {
	mu   sync.Mutex
	logs map[string][]time.Time
}

var _ ports.Storage = (*Store)(nil)

func New() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{logs: make(map[string][]time.Time)}
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%shardCount]
}

// Take runs the prune/check/append sequence for one client under its shard
// lock, so concurrent requests for the same key serialize here.
func (s *Store) Take(_ context.Context, key string, now time.Time, window time.Duration, limit int) (domain.WindowState, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	kept := prune(sh.logs[key], now, window)
	if len(kept) >= limit {
		sh.logs[key] = kept
		return domain.WindowState{Admitted: false, Count: len(kept)}, nil
	}

	kept = append(kept, now)
	sh.logs[key] = kept
	return domain.WindowState{Admitted: true, Count: len(kept)}, nil
}

// Counts reports usage without touching the stored logs.
func (s *Store) Counts(_ context.Context, now time.Time, window time.Duration) (domain.Usage, error) {
	var usage domain.Usage
	for _, sh := range s.shards {
		sh.mu.Lock()
		for _, entries := range sh.logs {
			n := 0
			for _, t := range entries {
				if now.Sub(t) < window {
					n++
				}
			}
			if n > 0 {
				usage.ActiveClients++
				usage.TotalRecentRequests += n
			}
		}
		sh.mu.Unlock()
	}
	return usage, nil
}

func (s *Store) Remove(_ context.Context, key string) (bool, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.logs[key]; !ok {
		return false, nil
	}
	delete(sh.logs, key)
	return true, nil
}

func (s *Store) Clear(_ context.Context) error {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.logs = make(map[string][]time.Time)
		sh.mu.Unlock()
	}
	return nil
}

// Sweep prunes every log and drops clients left empty. Emptiness is decided
// under the shard lock that performs the delete, so a request admitted in
// between cannot be lost. Shards are swept one at a time to bound pauses.
func (s *Store) Sweep(_ context.Context, now time.Time, window time.Duration) (int, error) {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, entries := range sh.logs {
			kept := prune(entries, now, window)
			if len(kept) == 0 {
				delete(sh.logs, key)
				removed++
				continue
			}
			sh.logs[key] = kept
		}
		sh.mu.Unlock()
	}
	return removed, nil
}

// prune drops entries that have been in the log for the full window, keeping
// the half-open interval (now-window, now]. It filters in place; the caller
// must hold the shard lock.
func prune(entries []time.Time, now time.Time, window time.Duration) []time.Time {
	kept := entries[:0]
	for _, t := range entries {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	return kept
}
