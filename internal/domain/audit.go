package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry records an admin mutation for the back-office trail.
type AuditEntry struct {
	ID         uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	TargetType string
	TargetID   string
	Detail     map[string]any
	CreatedAt  time.Time
}

// AuditFilter narrows audit listings.
type AuditFilter struct {
	ActorID    *uuid.UUID
	Action     string
	TargetType string
	From       *time.Time
	To         *time.Time
}

// AuditRepository abstracts the append-only audit trail.
type AuditRepository interface {
	Append(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, f AuditFilter, p Pagination) ([]AuditEntry, int, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// DailyRollup is a per-day aggregate row produced by the nightly metrics job.
type DailyRollup struct {
	Date              string
	BookingsCreated   int
	BookingsCompleted int
	BookingsCanceled  int
	BookingsNoShow    int
	OrdersCreated     int
	OrdersPaid        int
	RevenueKRW        int64
	NewCustomers      int
	ComputedAt        time.Time
}

// MetricsRepository stores daily rollups and computes them from source rows.
type MetricsRepository interface {
	Upsert(ctx context.Context, r *DailyRollup) error
	GetRange(ctx context.Context, from, to string) ([]DailyRollup, error)
	ComputeForDate(ctx context.Context, dayStart, dayEnd time.Time, date string) (*DailyRollup, error)
}
