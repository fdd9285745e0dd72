package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/wayfare/pkg/config"
)

// newTestConfig returns a config pointing to the given Redis URL.
func newTestConfig(url string) *config.Config {
	return &config.Config{
		RedisURL: url,
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

// Integration tests — skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	newClient := func(t *testing.T) *RedisClient {
		t.Helper()
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Cleanup(func() { _ = rc.Close() })
		return rc
	}

	t.Run("Ping_Success", func(t *testing.T) {
		rc := newClient(t)
		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("Availability_ReserveAndRelease", func(t *testing.T) {
		ctx := context.Background()
		avail := NewAvailabilityCache(newClient(t))
		itemID := uuid.New()

		if err := avail.Seed(ctx, itemID, 3); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		defer avail.Invalidate(ctx, itemID) //nolint:errcheck

		res, err := avail.Reserve(ctx, itemID, 2)
		if err != nil || res != ReserveOK {
			t.Fatalf("expected ReserveOK, got %v err=%v", res, err)
		}

		res, err = avail.Reserve(ctx, itemID, 2)
		if err != nil || res != ReserveShort {
			t.Fatalf("expected ReserveShort, got %v err=%v", res, err)
		}

		if err := avail.Release(ctx, itemID, 2); err != nil {
			t.Fatalf("Release failed: %v", err)
		}
		res, err = avail.Reserve(ctx, itemID, 3)
		if err != nil || res != ReserveOK {
			t.Fatalf("expected ReserveOK after release, got %v err=%v", res, err)
		}
	})

	t.Run("Availability_MissWhenUnseeded", func(t *testing.T) {
		avail := NewAvailabilityCache(newClient(t))

		res, err := avail.Reserve(context.Background(), uuid.New(), 1)
		if err != nil || res != ReserveMiss {
			t.Fatalf("expected ReserveMiss, got %v err=%v", res, err)
		}
	})

	t.Run("Catalog_SetGetDelete", func(t *testing.T) {
		ctx := context.Background()
		catalog := NewCatalogCache(newClient(t))

		want := &CachedItem{
			ID:            uuid.New(),
			Kind:          "flight",
			Name:          "NYC to London",
			Location:      "New York",
			Category:      "international",
			RateCents:     45999,
			RateBasis:     "per_seat",
			TotalCapacity: 150,
			CreatedAt:     time.Now().UTC(),
		}
		if err := catalog.Set(ctx, want); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		defer catalog.Delete(ctx, want.ID) //nolint:errcheck

		got, err := catalog.Get(ctx, want.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Name != want.Name || got.RateCents != want.RateCents || got.TotalCapacity != want.TotalCapacity {
			t.Fatalf("cached item mismatch: got %+v, want %+v", got, want)
		}

		if err := catalog.Delete(ctx, want.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := catalog.Get(ctx, want.ID); err == nil {
			t.Fatal("expected miss after delete")
		}
	})
}
