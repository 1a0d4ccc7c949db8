// Package redis implements the window-log storage on Redis sorted sets, for
// deployments that share limiter state across instances.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

const (
	keyPrefix = "ratelimit:client:"
	scanBatch = 100
)

// takeScript prunes, checks and appends in one atomic step so two concurrent
// requests cannot both claim the last slot. Scores are unix milliseconds;
// members carry a UUID so same-millisecond requests stay distinct.
var takeScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
	return {0, count}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1}
`)

type Storage struct {
	client *redis.Client
}

var _ ports.Storage = (*Storage)(nil)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Storage{client: client}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Take(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (domain.WindowState, error) {
	reply, err := takeScript.Run(ctx, s.client, []string{clientKey(key)},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString()).Int64Slice()
	if err != nil {
		return domain.WindowState{}, fmt.Errorf("run admission script: %w", err)
	}
	if len(reply) != 2 {
		return domain.WindowState{}, fmt.Errorf("unexpected admission script reply of length %d", len(reply))
	}
	return domain.WindowState{Admitted: reply[0] == 1, Count: int(reply[1])}, nil
}

func (s *Storage) Counts(ctx context.Context, now time.Time, window time.Duration) (domain.Usage, error) {
	// Stats are read-only: ZCOUNT with an exclusive lower bound filters the
	// stale entries without removing them.
	minScore := "(" + strconv.FormatInt(now.UnixMilli()-window.Milliseconds(), 10)

	var usage domain.Usage
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		n, err := s.client.ZCount(ctx, iter.Val(), minScore, "+inf").Result()
		if err != nil {
			return domain.Usage{}, err
		}
		if n > 0 {
			usage.ActiveClients++
			usage.TotalRecentRequests += int(n)
		}
	}
	if err := iter.Err(); err != nil {
		return domain.Usage{}, err
	}
	return usage, nil
}

func (s *Storage) Remove(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, clientKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) Clear(ctx context.Context) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Sweep prunes every client. Redis drops a sorted set the moment it becomes
// empty and PEXPIRE already bounds abandoned clients, so pruning is all the
// sweep has to do.
func (s *Storage) Sweep(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	cutoff := strconv.FormatInt(now.UnixMilli()-window.Milliseconds(), 10)

	removed := 0
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := s.client.ZRemRangeByScore(ctx, key, "-inf", cutoff).Err(); err != nil {
			return removed, err
		}
		exists, err := s.client.Exists(ctx, key).Result()
		if err != nil {
			return removed, err
		}
		if exists == 0 {
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

func clientKey(key string) string {
	return keyPrefix + key
}
