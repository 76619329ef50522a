package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
	"github.com/CelestynPark/PenArt-Reservation/internal/metrics"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

// AvailableSlots returns the bookable slots of a service on a local date
// (YYYY-MM-DD, studio timezone), served through the slot cache.
func (s *Service) AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) ([]schedule.Slot, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}

	return s.slotCache.GetOrCompute(ctx, serviceID, date, func(ctx context.Context) ([]schedule.Slot, error) {
		timer := metrics.SlotComputationDuration
		start := s.clock.Now()
		defer func() { timer.Observe(s.clock.Now().Sub(start).Seconds()) }()

		return s.computeSlots(ctx, svc, date)
	})
}

func (s *Service) computeSlots(ctx context.Context, svc *domain.Service, date string) ([]schedule.Slot, error) {
	avail, err := s.availability.Get(ctx)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation("2006-01-02", date, schedule.Seoul)
	if err != nil {
		return nil, apperrors.Validation("invalid date, expected YYYY-MM-DD")
	}
	occupied, err := s.occupiedSlots(ctx, svc.ID, day)
	if err != nil {
		return nil, err
	}

	return s.engine.SlotsForDate(avail, date, occupied, s.clock.Now())
}

func (s *Service) occupiedSlots(ctx context.Context, serviceID uuid.UUID, day time.Time) ([]schedule.Slot, error) {
	bookings, err := s.bookings.ListOccupied(ctx, serviceID, day.UTC(), day.AddDate(0, 0, 1).UTC())
	if err != nil {
		return nil, err
	}
	occupied := make([]schedule.Slot, 0, len(bookings))
	for _, b := range bookings {
		occupied = append(occupied, schedule.Slot{StartAt: b.StartAt, EndAt: b.EndAt})
	}
	return occupied, nil
}

// CreateBookingInput carries a slot reservation request.
type CreateBookingInput struct {
	CustomerID    uuid.UUID
	ServiceID     uuid.UUID
	StartAt       time.Time
	CustomerName  string
	CustomerPhone string
	Memo          string
	Source        domain.Source
	AgreePolicy   bool
}

// CreateBooking reserves a slot. The service's cutoff policy is frozen onto
// the booking; the slot must be one the engine would offer right now.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if in.Source == "" {
		in.Source = domain.SourceWeb
	}
	if !in.Source.Valid() {
		return nil, apperrors.Validation("invalid source")
	}
	if !in.AgreePolicy {
		return nil, apperrors.Validation("cancellation policy must be agreed to")
	}

	svc, err := s.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}

	now := s.clock.Now()
	startAt := in.StartAt.UTC()
	date := startAt.In(schedule.Seoul).Format("2006-01-02")

	avail, err := s.availability.Get(ctx)
	if err != nil {
		return nil, err
	}
	day, _ := time.ParseInLocation("2006-01-02", date, schedule.Seoul)
	occupied, err := s.occupiedSlots(ctx, svc.ID, day)
	if err != nil {
		return nil, err
	}
	bookable, err := s.engine.IsSlotBookable(avail, startAt, occupied, now)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return nil, apperrors.SlotBlocked("slot is not available")
	}

	booking := &domain.Booking{
		CustomerID:     in.CustomerID,
		ServiceID:      svc.ID,
		StartAt:        startAt,
		EndAt:          startAt.Add(time.Duration(svc.DurationMin) * time.Minute),
		Status:         domain.BookingRequested,
		Source:         in.Source,
		PolicySnapshot: svc.Policy,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		Memo:           in.Memo,
		History: []domain.HistoryEntry{{
			At: now.UTC(), By: in.CustomerID.String(), From: "", To: string(domain.BookingRequested),
		}},
	}

	booking.Code = humanCode("BKG", startAt)
	created, err := s.bookings.Create(ctx, booking)
	if errors.Is(err, domain.ErrSlotTaken) {
		return nil, apperrors.SlotBlocked("slot was just taken")
	}
	if err != nil {
		return nil, err
	}

	if err := s.slotCache.Invalidate(ctx, svc.ID, date); err != nil {
		slog.Warn("failed to invalidate slot cache", "service_id", svc.ID, "date", date, "error", err)
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(in.Source)).Inc()
	slog.Info("booking created", "booking_code", created.Code, "service", svc.Code, "start_at", created.StartAt)
	return created, nil
}

// GetBooking returns a booking, enforcing ownership for non-admin callers.
func (s *Service) GetBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role != domain.RoleAdmin && b.CustomerID != actor.ID {
		return nil, apperrors.Forbidden("not your booking")
	}
	return b, nil
}

// ListMyBookings returns the customer's bookings, newest first.
func (s *Service) ListMyBookings(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Booking, int, error) {
	return s.bookings.ListByCustomer(ctx, customerID, p)
}

// CancelBooking cancels a booking. Customers are bound by the policy
// snapshot's cancel cutoff; admins are not. Canceling an already canceled
// booking is an idempotent no-op.
func (s *Service) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	isAdmin := actor != nil && actor.Role == domain.RoleAdmin
	if !isAdmin && actor != nil && b.CustomerID != actor.ID {
		return nil, apperrors.Forbidden("not your booking")
	}

	if b.Status == domain.BookingCanceled {
		return b, nil
	}
	if !b.Status.CanTransition(domain.BookingCanceled) {
		return nil, apperrors.Conflict("booking can no longer be canceled")
	}

	now := s.clock.Now()
	if !isAdmin {
		cutoff := b.StartAt.Add(-time.Duration(b.PolicySnapshot.CancelBeforeHours) * time.Hour)
		if !now.Before(cutoff) {
			return nil, apperrors.PolicyCutoff("cancellation window has closed")
		}
	}

	by := "system"
	if actor != nil {
		by = actor.ID.String()
	}
	updated, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, domain.BookingCanceled, domain.HistoryEntry{
		At: now.UTC(), By: by, From: string(b.Status), To: string(domain.BookingCanceled), Reason: reason,
	})
	if errors.Is(err, domain.ErrStatusChanged) {
		// Lost a race; re-read to keep this idempotent when the winner also canceled.
		current, gerr := s.bookings.GetByID(ctx, b.ID)
		if gerr == nil && current.Status == domain.BookingCanceled {
			return current, nil
		}
		return nil, apperrors.Conflict("booking status changed concurrently")
	}
	if err != nil {
		return nil, err
	}

	date := updated.StartAt.In(schedule.Seoul).Format("2006-01-02")
	if err := s.slotCache.Invalidate(ctx, updated.ServiceID, date); err != nil {
		slog.Warn("failed to invalidate slot cache", "service_id", updated.ServiceID, "date", date, "error", err)
	}

	metrics.BookingTransitionsTotal.WithLabelValues(string(domain.BookingCanceled)).Inc()
	return updated, nil
}

// RescheduleBooking moves a booking to a new slot by creating a fresh booking
// and canceling the old one with reason "reschedule". The new booking carries
// the current service policy, not the old snapshot.
func (s *Service) RescheduleBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, newStartAt time.Time) (*domain.Booking, error) {
	old, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	isAdmin := actor != nil && actor.Role == domain.RoleAdmin
	if !isAdmin && actor != nil && old.CustomerID != actor.ID {
		return nil, apperrors.Forbidden("not your booking")
	}
	if old.Status.Terminal() {
		return nil, apperrors.Conflict("booking can no longer be rescheduled")
	}

	now := s.clock.Now()
	if !isAdmin {
		cutoff := old.StartAt.Add(-time.Duration(old.PolicySnapshot.ChangeBeforeHours) * time.Hour)
		if !now.Before(cutoff) {
			return nil, apperrors.PolicyCutoff("reschedule window has closed")
		}
	}

	created, err := s.CreateBooking(ctx, CreateBookingInput{
		CustomerID:    old.CustomerID,
		ServiceID:     old.ServiceID,
		StartAt:       newStartAt,
		CustomerName:  old.CustomerName,
		CustomerPhone: old.CustomerPhone,
		Memo:          old.Memo,
		Source:        old.Source,
		// The original agreement carries over to the moved booking.
		AgreePolicy: true,
	})
	if err != nil {
		return nil, err
	}

	by := "system"
	if actor != nil {
		by = actor.ID.String()
	}
	if _, err := s.bookings.UpdateStatus(ctx, old.ID, old.Status, domain.BookingCanceled, domain.HistoryEntry{
		At: now.UTC(), By: by, From: string(old.Status), To: string(domain.BookingCanceled), Reason: "reschedule",
	}); err != nil {
		// The new booking exists; roll it back so the customer is not double-booked.
		if _, rbErr := s.bookings.UpdateStatus(ctx, created.ID, created.Status, domain.BookingCanceled, domain.HistoryEntry{
			At: now.UTC(), By: "system", From: string(created.Status), To: string(domain.BookingCanceled), Reason: "reschedule rollback",
		}); rbErr != nil {
			slog.Error("failed to roll back reschedule", "booking_id", created.ID, "error", rbErr)
		}
		return nil, err
	}

	if err := s.bookings.SetRescheduledTo(ctx, old.ID, created.ID); err != nil {
		slog.Warn("failed to link rescheduled booking", "old", old.ID, "new", created.ID, "error", err)
	}

	oldDate := old.StartAt.In(schedule.Seoul).Format("2006-01-02")
	if err := s.slotCache.Invalidate(ctx, old.ServiceID, oldDate); err != nil {
		slog.Warn("failed to invalidate slot cache", "service_id", old.ServiceID, "date", oldDate, "error", err)
	}

	metrics.BookingTransitionsTotal.WithLabelValues(string(domain.BookingCanceled)).Inc()
	return created, nil
}

// TransitionBooking performs an admin status change. Transitions to the
// current status are idempotent no-ops. Completion waits for the session to
// end and no-show for the policy's grace period to pass.
func (s *Service) TransitionBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	if !to.Valid() {
		return nil, apperrors.Validation("invalid booking status")
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == to {
		return b, nil
	}
	if !b.Status.CanTransition(to) {
		return nil, apperrors.Conflict("transition not allowed from " + string(b.Status))
	}

	now := s.clock.Now()
	switch to {
	case domain.BookingCompleted:
		if now.Before(b.EndAt) {
			return nil, apperrors.Forbidden("cannot complete before the session ends")
		}
	case domain.BookingNoShow:
		grace := b.StartAt.Add(time.Duration(b.PolicySnapshot.NoShowAfterMin) * time.Minute)
		if now.Before(grace) {
			return nil, apperrors.Forbidden("too early to mark a no-show")
		}
	}

	by := "system"
	var actorID *uuid.UUID
	if actor != nil {
		by = actor.ID.String()
		actorID = &actor.ID
	}
	updated, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, to, domain.HistoryEntry{
		At: now.UTC(), By: by, From: string(b.Status), To: string(to), Reason: reason,
	})
	if errors.Is(err, domain.ErrStatusChanged) {
		current, gerr := s.bookings.GetByID(ctx, b.ID)
		if gerr == nil && current.Status == to {
			return current, nil
		}
		return nil, apperrors.Conflict("booking status changed concurrently")
	}
	if err != nil {
		return nil, err
	}

	if actorID != nil {
		if err := s.recordAudit(ctx, actorID, "booking."+string(to), "booking", b.ID.String(), map[string]any{"from": b.Status, "reason": reason}); err != nil {
			return nil, err
		}
	}

	metrics.BookingTransitionsTotal.WithLabelValues(string(to)).Inc()
	return updated, nil
}
