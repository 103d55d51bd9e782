package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/receptionist/pkg/logging"
)

// Summarizer produces a dashboard summary for a time range.
type Summarizer interface {
	Summary(ctx context.Context, from, to time.Time) (*Summary, error)
}

// CachedStore is a read-through Redis cache in front of a Summarizer.
// Dashboard queries tolerate snapshots up to the TTL old; cache failures
// degrade to the underlying store, never to an error.
type CachedStore struct {
	inner  Summarizer
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedStore wraps inner with a Redis snapshot cache. A zero ttl
// defaults to one minute.
func NewCachedStore(inner Summarizer, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedStore) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	key := fmt.Sprintf("analytics:summary:%d:%d", from.Unix(), to.Unix())

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		c.logger.Warn("discarding corrupt analytics snapshot", "key", key)
	} else if err != redis.Nil {
		c.logger.Warn("analytics cache read failed", "error", err)
	}

	summary, err := c.inner.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(summary); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("analytics cache write failed", "error", err)
		}
	}
	return summary, nil
}
