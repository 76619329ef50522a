package server

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
	"github.com/CelestynPark/PenArt-Reservation/internal/redis"
)

// idempotent runs fn once per Idempotency-Key. A replayed key returns the
// stored response body; a key still being processed is rejected. Requests
// without the header execute normally.
func (s *Server) idempotent(c echo.Context, resource string, fn func() (any, int, error)) error {
	key := c.Request().Header.Get("Idempotency-Key")
	if key == "" || s.idempotency == nil {
		data, status, err := fn()
		if err != nil {
			return err
		}
		return ok(c, status, data)
	}

	ctx := c.Request().Context()
	stored, owned, err := s.idempotency.Reserve(ctx, resource, key)
	if err != nil {
		if errors.Is(err, redis.ErrRequestInFlight) {
			return apperrors.Conflict("request with this idempotency key is still processing")
		}
		// Redis outage: fail open rather than block checkouts.
		slog.Warn("idempotency reservation failed", "resource", resource, "error", err)
		data, status, ferr := fn()
		if ferr != nil {
			return ferr
		}
		return ok(c, status, data)
	}
	if !owned {
		return c.JSONBlob(200, stored)
	}

	data, status, err := fn()
	if err != nil {
		if rerr := s.idempotency.Release(ctx, resource, key); rerr != nil {
			slog.Warn("idempotency release failed", "resource", resource, "error", rerr)
		}
		return err
	}

	body, merr := json.Marshal(envelope{OK: true, Data: data})
	if merr == nil {
		if serr := s.idempotency.StoreResult(ctx, resource, key, body); serr != nil {
			slog.Warn("idempotency store failed", "resource", resource, "error", serr)
		}
	}
	return ok(c, status, data)
}
