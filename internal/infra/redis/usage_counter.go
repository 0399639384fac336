package redis

import (
	"context"
	"strconv"
	"time"

	"talkpdf-backend/internal/usecase"
)

var _ usecase.CounterStore = (*UsageCounter)(nil)

// UsageCounter backs the daily quota counters with Redis.
type UsageCounter struct {
	client RedisClient
}

func NewUsageCounter(client RedisClient) *UsageCounter {
	return &UsageCounter{client: client}
}

func (c *UsageCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key)
}

func (c *UsageCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl)
}

func (c *UsageCounter) Count(ctx context.Context, key string) (int64, error) {
	v, err := c.client.Get(ctx, key)
	if err != nil {
		if IsNil(err) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}
