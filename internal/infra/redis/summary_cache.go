package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"subscription-tracker/internal/usecase"
)

var _ usecase.SummaryCache = (*SummaryCache)(nil)

// SummaryCache keeps computed cost summaries in Redis. Keys carry the
// civil date of the computation, so entries expire naturally at the day
// boundary even before the TTL does.
type SummaryCache struct {
	client *redClient
	ttl    time.Duration
}

func NewSummaryCache(client *redClient, ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *SummaryCache) GetSummary(ctx context.Context, key string) (*usecase.Summary, error) {
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var s usecase.Summary
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *SummaryCache) StoreSummary(ctx context.Context, key string, s *usecase.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl)
}
