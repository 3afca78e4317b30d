package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"oficios_backend/internal/billing/repository"
)

func newTestCache(t *testing.T) *SummaryCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewWithClient(client, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	pro := uuid.New()

	if _, ok := c.Get(ctx, pro); ok {
		t.Fatal("expected miss on empty cache")
	}

	summary := repository.PendingSummary{ProfessionalID: pro, PendingCount: 2, TotalFees: 14000}
	if err := c.Set(ctx, summary); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := c.Get(ctx, pro)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if got != summary {
		t.Fatalf("got %+v, want %+v", got, summary)
	}

	if err := c.Invalidate(ctx, pro); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok := c.Get(ctx, pro); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestSummaryCacheKeysAreScoped(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	if err := c.Set(ctx, repository.PendingSummary{ProfessionalID: a, PendingCount: 1, TotalFees: 5000}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := c.Get(ctx, b); ok {
		t.Fatal("summary leaked across professionals")
	}
	if err := c.Invalidate(ctx, b); err != nil {
		t.Fatalf("invalidate of missing key must be a no-op: %v", err)
	}
	if _, ok := c.Get(ctx, a); !ok {
		t.Fatal("unrelated invalidation dropped the entry")
	}
}

func TestNilCacheIsMissAndNoop(t *testing.T) {
	var c *SummaryCache
	ctx := context.Background()
	pro := uuid.New()

	if _, ok := c.Get(ctx, pro); ok {
		t.Fatal("nil cache must always miss")
	}
	if err := c.Set(ctx, repository.PendingSummary{ProfessionalID: pro}); err != nil {
		t.Fatalf("nil cache set: %v", err)
	}
	if err := c.Invalidate(ctx, pro); err != nil {
		t.Fatalf("nil cache invalidate: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil cache close: %v", err)
	}
}

func TestNewWithoutURLDisablesCaching(t *testing.T) {
	c, err := New("", time.Minute)
	if err != nil {
		t.Fatalf("empty url: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil cache for empty url")
	}

	if _, err := New("::not-a-url", time.Minute); err == nil {
		t.Fatal("expected error for malformed url")
	}
}
