package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CatalogCacheTTL is the time-to-live for cached catalog entries.
	// Entries are also invalidated eagerly by the worker whenever a booking
	// event changes an item's availability.
	CatalogCacheTTL = time.Hour

	catalogCacheKeyPrefix = "catalog"
)

// CachedItem is the denormalized catalog read model stored in Redis.
// Fields are stored as a Redis hash; attrs are JSON-encoded in one field.
// Availability here is a read-optimized copy — the database stays the
// source of truth and the booking worker drops stale entries.
type CachedItem struct {
	ID            uuid.UUID         `json:"id"`
	Kind          string            `json:"kind"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Location      string            `json:"location"`
	Category      string            `json:"category"`
	RateCents     int64             `json:"rate_cents"`
	RateBasis     string            `json:"rate_basis"`
	TotalCapacity int               `json:"total_capacity"`
	Available     int               `json:"available"`
	Attrs         map[string]string `json:"attrs"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CatalogCache provides structured read/write operations for catalog entries.
// Key format: "catalog:{itemID}"
type CatalogCache struct {
	client *RedisClient
}

// NewCatalogCache creates a new CatalogCache backed by the given RedisClient.
func NewCatalogCache(r *RedisClient) *CatalogCache {
	return &CatalogCache{client: r}
}

// Get retrieves a cached catalog entry by item ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *CatalogCache) Get(ctx context.Context, itemID uuid.UUID) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	rateCents, err := strconv.ParseInt(vals["rate_cents"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse rate_cents: %w", err)
	}
	total, err := strconv.Atoi(vals["total_capacity"])
	if err != nil {
		return nil, fmt.Errorf("cache parse total_capacity: %w", err)
	}
	available, err := strconv.Atoi(vals["available"])
	if err != nil {
		return nil, fmt.Errorf("cache parse available: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}
	attrs := map[string]string{}
	if raw := vals["attrs"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
			return nil, fmt.Errorf("cache parse attrs: %w", err)
		}
	}

	return &CachedItem{
		ID:            id,
		Kind:          vals["kind"],
		Name:          vals["name"],
		Description:   vals["description"],
		Location:      vals["location"],
		Category:      vals["category"],
		RateCents:     rateCents,
		RateBasis:     vals["rate_basis"],
		TotalCapacity: total,
		Available:     available,
		Attrs:         attrs,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// Set writes a catalog entry as a Redis hash with a 1-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *CatalogCache) Set(ctx context.Context, item *CachedItem) error {
	attrsRaw, err := json.Marshal(item.Attrs)
	if err != nil {
		return fmt.Errorf("cache encode attrs: %w", err)
	}

	key := c.key(item.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", item.ID.String(),
		"kind", item.Kind,
		"name", item.Name,
		"description", item.Description,
		"location", item.Location,
		"category", item.Category,
		"rate_cents", strconv.FormatInt(item.RateCents, 10),
		"rate_basis", item.RateBasis,
		"total_capacity", strconv.Itoa(item.TotalCapacity),
		"available", strconv.Itoa(item.Available),
		"attrs", string(attrsRaw),
		"created_at", item.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, CatalogCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached catalog entry.
func (c *CatalogCache) Delete(ctx context.Context, itemID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "catalog:{itemID}"
func (c *CatalogCache) key(itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", catalogCacheKeyPrefix, itemID)
}
