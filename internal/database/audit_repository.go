package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Append(ctx context.Context, e *domain.AuditEntry) error {
	detail, err := marshalJSONB(e.Detail)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_log (actor_id, action, target_type, target_id, detail)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ActorID, e.Action, e.TargetType, e.TargetID, detail)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepo) List(ctx context.Context, f domain.AuditFilter, p domain.Pagination) ([]domain.AuditEntry, int, error) {
	p = p.Clamp()

	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, clause+"$"+strconv.Itoa(len(args)))
	}
	if f.ActorID != nil {
		add("actor_id = ", *f.ActorID)
	}
	if f.Action != "" {
		add("action = ", f.Action)
	}
	if f.TargetType != "" {
		add("target_type = ", f.TargetType)
	}
	if f.From != nil {
		add("created_at >= ", *f.From)
	}
	if f.To != nil {
		add("created_at < ", *f.To)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + clauses[0]
		for _, c := range clauses[1:] {
			where += " AND " + c
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	args = append(args, p.Size, p.Offset())
	limits := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, `
		SELECT id, actor_id, action, target_type, target_id, detail, created_at
		FROM audit_log`+where+` ORDER BY created_at DESC`+limits, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e      domain.AuditEntry
			detail []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.TargetType, &e.TargetID, &detail, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if err := unmarshalJSONB(detail, &e.Detail); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *AuditRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audit_log WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit log: %w", err)
	}
	return tag.RowsAffected(), nil
}

type MetricsRepo struct {
	pool *pgxpool.Pool
}

func NewMetricsRepo(pool *pgxpool.Pool) *MetricsRepo {
	return &MetricsRepo{pool: pool}
}

const rollupColumns = `date, bookings_created, bookings_completed, bookings_canceled,
	bookings_no_show, orders_created, orders_paid, revenue_krw, new_customers, computed_at`

func scanRollup(row pgx.Row) (*domain.DailyRollup, error) {
	var ru domain.DailyRollup
	err := row.Scan(
		&ru.Date, &ru.BookingsCreated, &ru.BookingsCompleted, &ru.BookingsCanceled,
		&ru.BookingsNoShow, &ru.OrdersCreated, &ru.OrdersPaid, &ru.RevenueKRW,
		&ru.NewCustomers, &ru.ComputedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ru, nil
}

func (r *MetricsRepo) Upsert(ctx context.Context, ru *domain.DailyRollup) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO metrics_rollup (date, bookings_created, bookings_completed, bookings_canceled,
			bookings_no_show, orders_created, orders_paid, revenue_krw, new_customers, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (date) DO UPDATE SET
			bookings_created = EXCLUDED.bookings_created,
			bookings_completed = EXCLUDED.bookings_completed,
			bookings_canceled = EXCLUDED.bookings_canceled,
			bookings_no_show = EXCLUDED.bookings_no_show,
			orders_created = EXCLUDED.orders_created,
			orders_paid = EXCLUDED.orders_paid,
			revenue_krw = EXCLUDED.revenue_krw,
			new_customers = EXCLUDED.new_customers,
			computed_at = NOW()`,
		ru.Date, ru.BookingsCreated, ru.BookingsCompleted, ru.BookingsCanceled,
		ru.BookingsNoShow, ru.OrdersCreated, ru.OrdersPaid, ru.RevenueKRW, ru.NewCustomers)
	if err != nil {
		return fmt.Errorf("failed to upsert rollup: %w", err)
	}
	return nil
}

func (r *MetricsRepo) GetRange(ctx context.Context, from, to string) ([]domain.DailyRollup, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+rollupColumns+` FROM metrics_rollup
		WHERE date >= $1 AND date <= $2
		ORDER BY date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get rollup range: %w", err)
	}
	defer rows.Close()

	var rollups []domain.DailyRollup
	for rows.Next() {
		ru, err := scanRollup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rollup: %w", err)
		}
		rollups = append(rollups, *ru)
	}
	return rollups, rows.Err()
}

// ComputeForDate aggregates the source tables for one local day. The day
// boundaries arrive as UTC instants so the SQL stays timezone-agnostic.
func (r *MetricsRepo) ComputeForDate(ctx context.Context, dayStart, dayEnd time.Time, date string) (*domain.DailyRollup, error) {
	ru := domain.DailyRollup{Date: date}

	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
			COUNT(*) FILTER (WHERE status = 'completed' AND updated_at >= $1 AND updated_at < $2),
			COUNT(*) FILTER (WHERE status = 'canceled' AND updated_at >= $1 AND updated_at < $2),
			COUNT(*) FILTER (WHERE status = 'no_show' AND updated_at >= $1 AND updated_at < $2)
		FROM bookings`, dayStart, dayEnd).Scan(
		&ru.BookingsCreated, &ru.BookingsCompleted, &ru.BookingsCanceled, &ru.BookingsNoShow)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
			COUNT(*) FILTER (WHERE status = 'paid' AND updated_at >= $1 AND updated_at < $2),
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'paid' AND updated_at >= $1 AND updated_at < $2), 0)
		FROM orders`, dayStart, dayEnd).Scan(
		&ru.OrdersCreated, &ru.OrdersPaid, &ru.RevenueKRW)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE role = 'customer' AND created_at >= $1 AND created_at < $2`,
		dayStart, dayEnd).Scan(&ru.NewCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate new customers: %w", err)
	}

	return &ru, nil
}
