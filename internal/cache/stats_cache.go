package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/redis/go-redis/v9"
)

const (
	statsKeyPrefix = "buzzly:reports:stats:"
	generationKey  = "buzzly:reports:stats:gen"
)

// RedisStatsCache keeps the moderation dashboard counters in Redis. Entries
// are keyed by a generation counter that Invalidate increments; an entry
// written under an older generation is never read again and expires by TTL.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(redisURL string, ttl time.Duration) (*RedisStatsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis connected", "addr", opts.Addr)
	return &RedisStatsCache{client: client, ttl: ttl}, nil
}

// Generation returns the current generation; a missing counter is zero.
func (c *RedisStatsCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, true
		}
		slog.Warn("stats cache generation read failed", "error", err)
		return 0, false
	}
	return gen, true
}

func (c *RedisStatsCache) GetStats(ctx context.Context, gen int64) (*dto.ReportStats, bool) {
	raw, err := c.client.Get(ctx, statsKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("stats cache read failed", "error", err)
		}
		return nil, false
	}

	var stats dto.ReportStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		slog.Warn("stats cache entry corrupt", "error", err)
		return nil, false
	}
	return &stats, true
}

// SetStats stores stats computed under gen. It writes nothing if the
// generation has moved on since gen was read.
func (c *RedisStatsCache) SetStats(ctx context.Context, gen int64, stats *dto.ReportStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, statsKey(gen), raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		slog.Warn("stats cache write failed", "error", err)
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Warn("stats cache invalidate failed", "error", err)
	}
}

func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

func statsKey(gen int64) string {
	return statsKeyPrefix + strconv.FormatInt(gen, 10)
}
