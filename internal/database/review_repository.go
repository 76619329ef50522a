package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

const reviewColumns = `id, booking_id, customer_id, service_id, rating, body, images,
	status, created_at, updated_at`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var (
		rv     domain.Review
		images []byte
	)
	err := row.Scan(
		&rv.ID, &rv.BookingID, &rv.CustomerID, &rv.ServiceID, &rv.Rating, &rv.Body, &images,
		&rv.Status, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(images, &rv.Images); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}
	return rv, nil
}

func (r *ReviewRepo) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE booking_id = $1`, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review by booking: %w", err)
	}
	return rv, nil
}

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	images, err := marshalJSONBArray(rv.Images)
	if err != nil {
		return nil, err
	}

	created, err := scanReview(r.pool.QueryRow(ctx, `
		INSERT INTO reviews (booking_id, customer_id, service_id, rating, body, images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+reviewColumns,
		rv.BookingID, rv.CustomerID, rv.ServiceID, rv.Rating, rv.Body, images, rv.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return created, nil
}

func (r *ReviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.ReviewStatus) (*domain.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, `
		UPDATE reviews SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+reviewColumns,
		id, to))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review status: %w", err)
	}
	return rv, nil
}

func (r *ReviewRepo) ListApproved(ctx context.Context, serviceID *uuid.UUID, p domain.Pagination) ([]domain.Review, int, error) {
	where := ` WHERE status = 'approved'`
	args := []any{}
	if serviceID != nil {
		where += ` AND service_id = $1`
		args = append(args, *serviceID)
	}
	return r.list(ctx, where, args, p)
}

func (r *ReviewRepo) List(ctx context.Context, status domain.ReviewStatus, p domain.Pagination) ([]domain.Review, int, error) {
	where := ``
	args := []any{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}
	return r.list(ctx, where, args, p)
}

func (r *ReviewRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Review, int, error) {
	return r.list(ctx, ` WHERE customer_id = $1`, []any{customerID}, p)
}

func (r *ReviewRepo) list(ctx context.Context, where string, args []any, p domain.Pagination) ([]domain.Review, int, error) {
	p = p.Clamp()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	args = append(args, p.Size, p.Offset())
	limits := fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, `SELECT `+reviewColumns+` FROM reviews`+where+` ORDER BY created_at DESC`+limits, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, *rv)
	}
	return reviews, total, rows.Err()
}
