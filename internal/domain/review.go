package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the moderation state of a customer review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
	ReviewHidden   ReviewStatus = "hidden"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected, ReviewHidden:
		return true
	}
	return false
}

// Review is written by a customer against a completed booking. One review per
// booking; the unique constraint lives in storage.
type Review struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
	Rating     int
	Body       string
	Images     []string
	Status     ReviewStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReviewRepository abstracts review persistence. Create returns
// ErrDuplicateReview when a review for the booking already exists.
type ReviewRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (*Review, error)
	Create(ctx context.Context, r *Review) (*Review, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to ReviewStatus) (*Review, error)
	ListApproved(ctx context.Context, serviceID *uuid.UUID, p Pagination) ([]Review, int, error)
	List(ctx context.Context, status ReviewStatus, p Pagination) ([]Review, int, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, p Pagination) ([]Review, int, error)
}
