// Package jobs runs the recurring background work: booking reminders, order
// expiry, booking auto-completion, nightly cleanup, and the metrics rollup.
// Every job takes a Redis lock first so only one instance runs it at a time.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/CelestynPark/PenArt-Reservation/internal/metrics"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

// Runner is the subset of the application service the scheduler drives.
type Runner interface {
	SendReminders(ctx context.Context) (int, error)
	ExpireOrders(ctx context.Context) (int, error)
	AutoCompleteBookings(ctx context.Context) (int, error)
	CleanupStale(ctx context.Context) error
	RollupMetrics(ctx context.Context) error
}

// Locker serializes a named job across instances.
type Locker interface {
	Acquire(ctx context.Context, job string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

const jobTimeout = 5 * time.Minute

// Scheduler owns the cron instance. Schedules are evaluated in studio-local
// time so the nightly jobs land in the quiet hours.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	locker Locker
}

func NewScheduler(runner Runner, locker Locker) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(schedule.Seoul)),
		runner: runner,
		locker: locker,
	}
}

// Start registers the jobs and begins running them.
func (s *Scheduler) Start() error {
	entries := []struct {
		spec string
		name string
		run  func(context.Context) error
	}{
		{"*/5 * * * *", "booking_reminders", func(ctx context.Context) error {
			n, err := s.runner.SendReminders(ctx)
			if err == nil && n > 0 {
				slog.Info("reminders sent", "count", n)
			}
			return err
		}},
		{"*/10 * * * *", "order_expiry", func(ctx context.Context) error {
			n, err := s.runner.ExpireOrders(ctx)
			if err == nil && n > 0 {
				slog.Info("orders expired", "count", n)
			}
			return err
		}},
		{"*/15 * * * *", "booking_autocomplete", func(ctx context.Context) error {
			n, err := s.runner.AutoCompleteBookings(ctx)
			if err == nil && n > 0 {
				slog.Info("bookings auto-completed", "count", n)
			}
			return err
		}},
		{"30 3 * * *", "stale_cleanup", s.runner.CleanupStale},
		{"0 2 * * *", "metrics_rollup", s.runner.RollupMetrics},
	}

	for _, e := range entries {
		e := e
		if _, err := s.cron.AddFunc(e.spec, func() { s.runLocked(e.name, e.run) }); err != nil {
			return err
		}
	}

	s.cron.Start()
	slog.Info("job scheduler started", "jobs", len(entries))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("job scheduler stopped")
}

func (s *Scheduler) runLocked(name string, run func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	release, ok, err := s.locker.Acquire(ctx, name, jobTimeout)
	if err != nil {
		slog.Error("job lock acquisition failed", "job", name, "error", err)
		metrics.JobRunsTotal.WithLabelValues(name, "lock_error").Inc()
		return
	}
	if !ok {
		metrics.JobRunsTotal.WithLabelValues(name, "skipped").Inc()
		return
	}
	defer func() {
		if err := release(ctx); err != nil {
			slog.Warn("job lock release failed", "job", name, "error", err)
		}
	}()

	start := time.Now()
	err = run(ctx)
	metrics.JobDurationSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Error("job failed", "job", name, "error", err)
		metrics.JobRunsTotal.WithLabelValues(name, "error").Inc()
		return
	}
	metrics.JobRunsTotal.WithLabelValues(name, "ok").Inc()
}
