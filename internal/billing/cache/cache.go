// Package cache provides a Redis-backed read-through cache for pending
// commission summaries. The payment gate sits on every claim and quote, so
// summaries are cached briefly and invalidated on ledger writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"oficios_backend/internal/billing/repository"
)

// SummaryCache caches pending commission summaries per professional.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a summary cache from a Redis URL. An empty URL disables
// caching; every method on a nil cache is a no-op miss.
func New(redisURL string, ttl time.Duration) (*SummaryCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &SummaryCache{client: redis.NewClient(opt), ttl: ttl}, nil
}

// NewWithClient creates a summary cache over an existing Redis client.
func NewWithClient(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func key(professionalID uuid.UUID) string {
	return "billing:pending-summary:" + professionalID.String()
}

// Get returns the cached summary, or ok=false on a miss.
func (c *SummaryCache) Get(ctx context.Context, professionalID uuid.UUID) (repository.PendingSummary, bool) {
	if c == nil {
		return repository.PendingSummary{}, false
	}
	data, err := c.client.Get(ctx, key(professionalID)).Bytes()
	if err != nil {
		return repository.PendingSummary{}, false
	}
	var summary repository.PendingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return repository.PendingSummary{}, false
	}
	return summary, true
}

// Set stores the summary for the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, summary repository.PendingSummary) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return c.client.Set(ctx, key(summary.ProfessionalID), data, c.ttl).Err()
}

// Invalidate drops the cached summary after a ledger write.
func (c *SummaryCache) Invalidate(ctx context.Context, professionalID uuid.UUID) error {
	if c == nil {
		return nil
	}
	err := c.client.Del(ctx, key(professionalID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *SummaryCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
