package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const availabilityKeyPrefix = "availability:"

// reserveScript atomically checks and decrements an availability counter.
// Returns 1 when the reservation fits, 0 when capacity is short, and -1 when
// the counter is not present (cold cache — caller falls through to the DB).
var reserveScript = redis.NewScript(`
local key = KEYS[1]
local delta = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return -1
end

current = tonumber(current)
if current >= delta then
	redis.call('DECRBY', key, delta)
	return 1
end

return 0
`)

// ReserveResult is the outcome of an atomic availability reservation.
type ReserveResult int

const (
	// ReserveMiss means no counter exists for the item; the caller must
	// rely on the database's conditional decrement alone.
	ReserveMiss ReserveResult = iota
	// ReserveOK means the counter covered the delta and was decremented.
	ReserveOK
	// ReserveShort means the counter exists but is below the delta.
	ReserveShort
)

// AvailabilityCache keeps per-item availability counters in Redis as a fast
// pre-check in front of the database's conditional capacity UPDATE. The
// database remains the source of truth; counters are repopulated from it
// whenever they go missing.
type AvailabilityCache struct {
	client *RedisClient
}

// NewAvailabilityCache returns an AvailabilityCache backed by the given client.
func NewAvailabilityCache(r *RedisClient) *AvailabilityCache {
	return &AvailabilityCache{client: r}
}

// Reserve atomically checks and decrements the item's counter by delta.
func (c *AvailabilityCache) Reserve(ctx context.Context, itemID uuid.UUID, delta int) (ReserveResult, error) {
	res, err := reserveScript.Run(ctx, c.client.Client(), []string{c.key(itemID)}, delta).Int()
	if err != nil {
		return ReserveMiss, fmt.Errorf("availability reserve: %w", err)
	}
	switch res {
	case 1:
		return ReserveOK, nil
	case 0:
		return ReserveShort, nil
	default:
		return ReserveMiss, nil
	}
}

// Release restores delta units to the item's counter. Used both for
// cancellations and to roll back a Reserve whose database write failed.
// A missing counter is left missing; it will be reseeded from the database.
func (c *AvailabilityCache) Release(ctx context.Context, itemID uuid.UUID, delta int) error {
	key := c.key(itemID)
	exists, err := c.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("availability release: %w", err)
	}
	if exists == 0 {
		return nil
	}
	if err := c.client.Client().IncrBy(ctx, key, int64(delta)).Err(); err != nil {
		return fmt.Errorf("availability release: %w", err)
	}
	return nil
}

// Seed sets the item's counter to the authoritative availability value.
func (c *AvailabilityCache) Seed(ctx context.Context, itemID uuid.UUID, available int) error {
	if err := c.client.Client().Set(ctx, c.key(itemID), available, 0).Err(); err != nil {
		return fmt.Errorf("availability seed: %w", err)
	}
	return nil
}

// Invalidate drops the item's counter so the next reservation reseeds it.
func (c *AvailabilityCache) Invalidate(ctx context.Context, itemID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(itemID)).Err(); err != nil {
		return fmt.Errorf("availability invalidate: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(itemID uuid.UUID) string {
	return availabilityKeyPrefix + itemID.String()
}
