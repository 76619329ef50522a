package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/CelestynPark/PenArt-Reservation/internal/metrics"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers the response of a mutating request keyed by the
// client's Idempotency-Key header, so retries replay the original result
// instead of repeating the side effect.
type IdempotencyStore struct {
	rdb *goredis.Client
}

func NewIdempotencyStore(rdb *goredis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

func idempotencyKey(resource, key string) string {
	return fmt.Sprintf("idem:%s:%s", resource, key)
}

// Reserve claims the key for this request. It returns (nil, true) when the
// caller owns the key and must store the result, or (stored, false) when a
// previous request already produced a response.
func (s *IdempotencyStore) Reserve(ctx context.Context, resource, key string) ([]byte, bool, error) {
	ok, err := s.rdb.SetNX(ctx, idempotencyKey(resource, key), "", idempotencyTTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return nil, true, nil
	}

	stored, err := s.rdb.Get(ctx, idempotencyKey(resource, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		// Key vanished between SETNX and GET; treat as owned.
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if len(stored) == 0 {
		// The first request is still in flight.
		return nil, false, ErrRequestInFlight
	}

	metrics.IdempotentReplaysTotal.WithLabelValues(resource).Inc()
	return stored, false, nil
}

// StoreResult records the response for later replays, keeping the TTL.
func (s *IdempotencyStore) StoreResult(ctx context.Context, resource, key string, result []byte) error {
	err := s.rdb.Set(ctx, idempotencyKey(resource, key), result, goredis.KeepTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store idempotent result: %w", err)
	}
	return nil
}

// Release frees the key after a failed request so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, resource, key string) error {
	return s.rdb.Del(ctx, idempotencyKey(resource, key)).Err()
}

// ErrRequestInFlight means another request with the same idempotency key has
// not finished yet.
var ErrRequestInFlight = errors.New("request with this idempotency key is in flight")
