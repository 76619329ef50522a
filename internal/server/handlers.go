package server

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
)

// envelope is the success wrapper; errors use the envelope from the errors
// middleware so clients always see {"ok": ..., ...}.
type envelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
	Meta any  `json:"meta,omitempty"`
}

type listMeta struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{OK: true, Data: data})
}

func okList(c echo.Context, data any, p domain.Pagination, total int) error {
	return c.JSON(200, envelope{OK: true, Data: data, Meta: listMeta{Page: p.Page, Size: p.Size, Total: total}})
}

// currentUser returns the authenticated user set by the auth middleware, or
// nil for anonymous requests.
func currentUser(c echo.Context) *domain.User {
	u, _ := c.Get("user").(*domain.User)
	return u
}

func bindJSON(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}

func paramUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid " + name)
	}
	return id, nil
}

func parseUUIDField(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid " + name)
	}
	return id, nil
}

func pagination(c echo.Context) domain.Pagination {
	p := domain.Pagination{Page: 1, Size: domain.DefaultPageSize}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil && v > 0 {
		p.Size = min(v, domain.MaxPageSize)
	}
	return p
}

// mapErr translates storage sentinels into the wire error vocabulary.
// Structured errors pass through untouched.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var structured *apperrors.Error
	if errors.As(err, &structured) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrServiceNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrGoodsNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrWorkNotFound),
		errors.Is(err, domain.ErrNewsNotFound),
		errors.Is(err, domain.ErrReviewNotFound):
		return apperrors.NotFound(err.Error())
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrTokenNotFound):
		return apperrors.Unauthorized(err.Error())
	case errors.Is(err, domain.ErrDuplicateSlug), errors.Is(err, domain.ErrDuplicateReview),
		errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrStatusChanged),
		errors.Is(err, domain.ErrInsufficientStock):
		return apperrors.Conflict(err.Error())
	case errors.Is(err, domain.ErrSlotTaken):
		return apperrors.SlotBlocked(err.Error())
	}
	return err
}
