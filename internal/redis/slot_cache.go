package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/CelestynPark/PenArt-Reservation/internal/metrics"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

const slotCacheTTL = 60 * time.Second

// SlotCache caches computed availability slots per service and date. The TTL
// is short: bookings invalidate eagerly, but the cache only ever serves a
// view of a moving schedule so staleness is bounded either way.
type SlotCache struct {
	rdb   *goredis.Client
	group singleflight.Group
}

func NewSlotCache(rdb *goredis.Client) *SlotCache {
	return &SlotCache{rdb: rdb}
}

func slotCacheKey(serviceID uuid.UUID, date string) string {
	return fmt.Sprintf("slots:%s:%s", serviceID, date)
}

// GetOrCompute returns the cached slots for (serviceID, date) or computes
// them once per instance under singleflight and caches the result.
func (c *SlotCache) GetOrCompute(ctx context.Context, serviceID uuid.UUID, date string, compute func(context.Context) ([]schedule.Slot, error)) ([]schedule.Slot, error) {
	key := slotCacheKey(serviceID, date)

	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var slots []schedule.Slot
		if err := json.Unmarshal(payload, &slots); err == nil {
			metrics.SlotCacheHitsTotal.WithLabelValues("hit").Inc()
			return slots, nil
		}
	} else if !errors.Is(err, goredis.Nil) {
		// Redis being down degrades to direct computation.
		metrics.SlotCacheHitsTotal.WithLabelValues("error").Inc()
		return compute(ctx)
	}

	metrics.SlotCacheHitsTotal.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(key, func() (any, error) {
		slots, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		if payload, err := json.Marshal(slots); err == nil {
			if err := c.rdb.Set(ctx, key, payload, slotCacheTTL).Err(); err != nil {
				// Cache write failure is not fatal.
				metrics.SlotCacheHitsTotal.WithLabelValues("error").Inc()
			}
		}
		return slots, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]schedule.Slot), nil
}

// Invalidate drops the cached slots for a service/date after a booking
// mutation touches that day.
func (c *SlotCache) Invalidate(ctx context.Context, serviceID uuid.UUID, date string) error {
	return c.rdb.Del(ctx, slotCacheKey(serviceID, date)).Err()
}
