package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking. No status reuses a
// canceled or completed booking; reschedules create a new one.
type BookingStatus string

const (
	BookingRequested BookingStatus = "requested"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCanceled  BookingStatus = "canceled"
	BookingNoShow    BookingStatus = "no_show"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingRequested, BookingConfirmed, BookingCompleted, BookingCanceled, BookingNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCompleted, BookingCanceled, BookingNoShow:
		return true
	}
	return false
}

// CanTransition reports whether s -> to is an allowed edge. Transitions to
// the same status are treated as idempotent no-ops by the caller, not here.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingRequested:
		return to == BookingConfirmed || to == BookingCanceled
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCanceled || to == BookingNoShow
	}
	return false
}

// Booking is a reserved class slot. StartAt/EndAt are stored in UTC; the
// policy snapshot is frozen from the service at create time.
type Booking struct {
	ID             uuid.UUID
	Code           string
	CustomerID     uuid.UUID
	ServiceID      uuid.UUID
	StartAt        time.Time
	EndAt          time.Time
	Status         BookingStatus
	Source         Source
	PolicySnapshot Policy
	CustomerName   string
	CustomerPhone  string
	Memo           string
	AdminMemo      string
	RescheduledTo  *uuid.UUID
	History        []HistoryEntry
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BookingFilter narrows admin listings.
type BookingFilter struct {
	Status     BookingStatus
	ServiceID  *uuid.UUID
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Query      string
}

// BookingRepository abstracts booking persistence. UpdateStatus performs a
// compare-and-swap on the current status and returns ErrStatusChanged when
// the stored status no longer matches.
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCode(ctx context.Context, code string) (*Booking, error)
	Create(ctx context.Context, b *Booking) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus, entry HistoryEntry) (*Booking, error)
	SetRescheduledTo(ctx context.Context, id, newID uuid.UUID) error
	UpdateAdminMemo(ctx context.Context, id uuid.UUID, memo string) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, p Pagination) ([]Booking, int, error)
	List(ctx context.Context, f BookingFilter, p Pagination) ([]Booking, int, error)
	ListOccupied(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]Booking, error)
	ListDueReminder(ctx context.Context, windowStart, windowEnd time.Time) ([]Booking, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error
	ListPastConfirmed(ctx context.Context, before time.Time) ([]Booking, error)
}
