package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	"github.com/CelestynPark/PenArt-Reservation/internal/metrics"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

// SendReminders notifies customers whose confirmed class starts within the
// reminder window. Each booking is reminded at most once.
func (s *Service) SendReminders(ctx context.Context) (int, error) {
	now := s.clock.Now()
	due, err := s.bookings.ListDueReminder(ctx, now, now.Add(time.Duration(s.cfg.ReminderBeforeHours)*time.Hour))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, b := range due {
		u, err := s.users.GetByID(ctx, b.CustomerID)
		if err != nil {
			slog.Error("failed to load customer for reminder", "booking_code", b.Code, "error", err)
			continue
		}
		// Delivery goes to the log for now; channel integrations hang off
		// the user's notification preferences.
		slog.Info("booking reminder",
			"booking_code", b.Code,
			"email", u.Email,
			"start_at", b.StartAt.In(schedule.Seoul).Format("2006-01-02 15:04"),
		)
		if err := s.bookings.MarkReminderSent(ctx, b.ID, now); err != nil {
			slog.Error("failed to mark reminder sent", "booking_code", b.Code, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// AutoCompleteBookings moves confirmed bookings whose end time has passed to
// completed, after the service's no-show grace period.
func (s *Service) AutoCompleteBookings(ctx context.Context) (int, error) {
	now := s.clock.Now()
	past, err := s.bookings.ListPastConfirmed(ctx, now)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, b := range past {
		if now.Before(b.EndAt.Add(time.Duration(b.PolicySnapshot.NoShowAfterMin) * time.Minute)) {
			continue
		}
		_, err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingConfirmed, domain.BookingCompleted, domain.HistoryEntry{
			At: now.UTC(), By: "system", From: string(domain.BookingConfirmed), To: string(domain.BookingCompleted), Reason: "class ended",
		})
		if err != nil {
			// Lost races mean an admin already resolved the booking.
			continue
		}
		metrics.BookingTransitionsTotal.WithLabelValues(string(domain.BookingCompleted)).Inc()
		completed++
	}
	return completed, nil
}

// CleanupStale removes spent magic-link tokens and audit entries past the
// retention window.
func (s *Service) CleanupStale(ctx context.Context) error {
	now := s.clock.Now()
	if deleted, err := s.tokens.DeleteExpired(ctx, now.Add(-24*time.Hour)); err != nil {
		return err
	} else if deleted > 0 {
		slog.Info("deleted expired auth tokens", "count", deleted)
	}
	if deleted, err := s.audit.DeleteBefore(ctx, now.AddDate(-1, 0, 0)); err != nil {
		return err
	} else if deleted > 0 {
		slog.Info("deleted old audit entries", "count", deleted)
	}
	return nil
}

// RollupMetrics aggregates yesterday's activity into the dashboard rollup.
// Day boundaries are studio-local.
func (s *Service) RollupMetrics(ctx context.Context) error {
	now := s.clock.Now().In(schedule.Seoul)
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, schedule.Seoul)
	dayStart := dayEnd.AddDate(0, 0, -1)
	date := dayStart.Format("2006-01-02")

	rollup, err := s.rollups.ComputeForDate(ctx, dayStart.UTC(), dayEnd.UTC(), date)
	if err != nil {
		return err
	}
	if err := s.rollups.Upsert(ctx, rollup); err != nil {
		return err
	}
	slog.Info("metrics rollup stored", "date", date)
	return nil
}
