package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{pool: pool}
}

const bookingColumns = `id, code, customer_id, service_id, start_at, end_at, status, source,
	policy_snapshot, customer_name, customer_phone, memo, admin_memo, rescheduled_to,
	history, reminder_sent_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b               domain.Booking
		policy, history []byte
	)
	err := row.Scan(
		&b.ID, &b.Code, &b.CustomerID, &b.ServiceID, &b.StartAt, &b.EndAt, &b.Status, &b.Source,
		&policy, &b.CustomerName, &b.CustomerPhone, &b.Memo, &b.AdminMemo, &b.RescheduledTo,
		&history, &b.ReminderSentAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(policy, &b.PolicySnapshot); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(history, &b.History); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by ID: %w", err)
	}
	return b, nil
}

func (r *BookingRepo) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by code: %w", err)
	}
	return b, nil
}

// Create inserts a booking. The partial unique index on (service_id, start_at)
// for non-canceled rows turns concurrent double-booking into ErrSlotTaken.
func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	policy, err := marshalJSONB(b.PolicySnapshot)
	if err != nil {
		return nil, err
	}
	history, err := marshalJSONBArray(b.History)
	if err != nil {
		return nil, err
	}

	created, err := scanBooking(r.pool.QueryRow(ctx, `
		INSERT INTO bookings (code, customer_id, service_id, start_at, end_at, status, source,
			policy_snapshot, customer_name, customer_phone, memo, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+bookingColumns,
		b.Code, b.CustomerID, b.ServiceID, b.StartAt, b.EndAt, b.Status, b.Source,
		policy, b.CustomerName, b.CustomerPhone, b.Memo, history))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return created, nil
}

// UpdateStatus moves a booking from one status to another, prepending the
// history entry atomically so history reads newest first. The WHERE status
// guard makes this a compare-and-swap: a stale caller gets ErrStatusChanged.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, entry domain.HistoryEntry) (*domain.Booking, error) {
	entryJSON, err := marshalJSONB(entry)
	if err != nil {
		return nil, err
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, `
		UPDATE bookings SET
			status = $3,
			history = $4::jsonb || history,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+bookingColumns,
		id, from, to, entryJSON))
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a missing row from a lost race.
		var exists bool
		if qerr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); qerr != nil {
			return nil, fmt.Errorf("failed to check booking existence: %w", qerr)
		}
		if !exists {
			return nil, domain.ErrBookingNotFound
		}
		return nil, domain.ErrStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return b, nil
}

func (r *BookingRepo) SetRescheduledTo(ctx context.Context, id, newID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET rescheduled_to = $2, updated_at = NOW()
		WHERE id = $1`, id, newID)
	if err != nil {
		return fmt.Errorf("failed to set rescheduled_to: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepo) UpdateAdminMemo(ctx context.Context, id uuid.UUID, memo string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET admin_memo = $2, updated_at = NOW()
		WHERE id = $1`, id, memo)
	if err != nil {
		return fmt.Errorf("failed to update admin memo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Booking, int, error) {
	p = p.Clamp()

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE customer_id = $1`, customerID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE customer_id = $1
		ORDER BY start_at DESC
		LIMIT $2 OFFSET $3`, customerID, p.Size, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepo) List(ctx context.Context, f domain.BookingFilter, p domain.Pagination) ([]domain.Booking, int, error) {
	p = p.Clamp()
	where, args := bookingFilterClauses(f)

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	args = append(args, p.Size, p.Offset())
	limits := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings`+where+` ORDER BY start_at DESC`+limits, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func bookingFilterClauses(f domain.BookingFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, clause+"$"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		add("status = ", f.Status)
	}
	if f.ServiceID != nil {
		add("service_id = ", *f.ServiceID)
	}
	if f.CustomerID != nil {
		add("customer_id = ", *f.CustomerID)
	}
	if f.From != nil {
		add("start_at >= ", *f.From)
	}
	if f.To != nil {
		add("start_at < ", *f.To)
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := "$" + strconv.Itoa(len(args))
		clauses = append(clauses, "(code ILIKE "+n+" OR customer_name ILIKE "+n+" OR customer_phone ILIKE "+n+")")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

// ListOccupied returns the non-canceled bookings of a service overlapping
// [from, to), used by the slot engine to subtract busy time.
func (r *BookingRepo) ListOccupied(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE service_id = $1 AND status <> 'canceled' AND start_at < $3 AND end_at > $2
		ORDER BY start_at`, serviceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list occupied bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListDueReminder returns confirmed bookings starting inside the window that
// have not been reminded yet.
func (r *BookingRepo) ListDueReminder(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE status = 'confirmed' AND reminder_sent_at IS NULL
			AND start_at >= $1 AND start_at < $2
		ORDER BY start_at`, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder-due bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepo) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bookings SET reminder_sent_at = $2, updated_at = NOW()
		WHERE id = $1 AND reminder_sent_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

// ListPastConfirmed returns confirmed bookings whose end time has passed,
// candidates for auto-completion.
func (r *BookingRepo) ListPastConfirmed(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE status = 'confirmed' AND end_at < $1
		ORDER BY end_at`, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list past confirmed bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
