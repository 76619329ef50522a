package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CelestynPark/PenArt-Reservation/internal/app"
	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
)

type createBookingRequest struct {
	ServiceID     string    `json:"service_id"`
	StartAt       time.Time `json:"start_at"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Memo          string    `json:"memo"`
	AgreePolicy   bool      `json:"agree_policy"`
}

func (s *Server) handleCreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	serviceID, err := parseUUIDField(req.ServiceID, "service_id")
	if err != nil {
		return err
	}
	if req.StartAt.IsZero() {
		return apperrors.Validation("start_at is required")
	}

	return s.idempotent(c, "booking", func() (any, int, error) {
		b, err := s.app.CreateBooking(c.Request().Context(), app.CreateBookingInput{
			CustomerID:    currentUser(c).ID,
			ServiceID:     serviceID,
			StartAt:       req.StartAt,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Memo:          req.Memo,
			Source:        domain.SourceWeb,
			AgreePolicy:   req.AgreePolicy,
		})
		if err != nil {
			return nil, 0, mapErr(err)
		}
		return toBookingView(b), 201, nil
	})
}

func (s *Server) handleGetBooking(c echo.Context) error {
	bookingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	b, err := s.app.GetBooking(c.Request().Context(), bookingID, currentUser(c))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toBookingView(b))
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleCancelBooking(c echo.Context) error {
	bookingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req cancelRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	b, err := s.app.CancelBooking(c.Request().Context(), bookingID, currentUser(c), req.Reason)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toBookingView(b))
}

type rescheduleRequest struct {
	StartAt time.Time `json:"start_at"`
}

func (s *Server) handleRescheduleBooking(c echo.Context) error {
	bookingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req rescheduleRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.StartAt.IsZero() {
		return apperrors.Validation("start_at is required")
	}

	b, err := s.app.RescheduleBooking(c.Request().Context(), bookingID, currentUser(c), req.StartAt)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toBookingView(b))
}
