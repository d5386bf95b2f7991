package company

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ajanda/internal/agenda/models"
)

const cacheKey = "agenda:companies"

// Cached decorates a Store with a Redis read-through cache. The company
// list is read on every timeline fetch but changes rarely; cache failures
// degrade to the inner store, never to an error.
type Cached struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps inner with a Redis cache.
func NewCached(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *Cached) List(ctx context.Context) ([]models.Company, error) {
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var cached []models.Company
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		// Corrupt cache entry: fall through and rewrite it.
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "company cache read failed", "error", err)
	}

	companies, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(companies); jsonErr == nil {
		if setErr := c.client.Set(ctx, cacheKey, payload, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "company cache write failed", "error", setErr)
		}
	}
	return companies, nil
}

// Invalidate drops the cached list; call after company settings change.
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, cacheKey).Err()
}
