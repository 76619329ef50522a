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

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, code, customer_id, goods_id, goods_snapshot, quantity,
	total_amount, total_currency, status, method, buyer, bank_snapshot,
	depositor_name, receipt_image, memo, admin_memo, expires_at, history,
	created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                              domain.Order
		snapshot, buyer, bank, history []byte
	)
	err := row.Scan(
		&o.ID, &o.Code, &o.CustomerID, &o.GoodsID, &snapshot, &o.Quantity,
		&o.Total.Amount, &o.Total.Currency, &o.Status, &o.Method, &buyer, &bank,
		&o.DepositorName, &o.ReceiptImage, &o.Memo, &o.AdminMemo, &o.ExpiresAt, &history,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(snapshot, &o.GoodsSnapshot); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(buyer, &o.Buyer); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(bank, &o.Bank); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(history, &o.History); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by code: %w", err)
	}
	return o, nil
}

const insertOrderSQL = `
	INSERT INTO orders (code, customer_id, goods_id, goods_snapshot, quantity,
		total_amount, total_currency, status, method, buyer, bank_snapshot,
		memo, expires_at, history)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING ` + orderColumns

func orderInsertArgs(o *domain.Order) ([]any, error) {
	snapshot, err := marshalJSONB(o.GoodsSnapshot)
	if err != nil {
		return nil, err
	}
	buyer, err := marshalJSONB(o.Buyer)
	if err != nil {
		return nil, err
	}
	bank, err := marshalJSONB(o.Bank)
	if err != nil {
		return nil, err
	}
	history, err := marshalJSONBArray(o.History)
	if err != nil {
		return nil, err
	}
	return []any{
		o.Code, o.CustomerID, o.GoodsID, snapshot, o.Quantity,
		o.Total.Amount, o.Total.Currency, o.Status, o.Method, buyer, bank,
		o.Memo, o.ExpiresAt, history,
	}, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	args, err := orderInsertArgs(o)
	if err != nil {
		return nil, err
	}
	created, err := scanOrder(r.pool.QueryRow(ctx, insertOrderSQL, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

// CreateWithStockHold reserves the ordered quantity and inserts the order in
// one transaction. The stock UPDATE carries the same non-negative guard as
// GoodsRepo.AdjustStock, so an oversell rolls everything back with
// ErrInsufficientStock.
func (r *OrderRepo) CreateWithStockHold(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	args, err := orderInsertArgs(o)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE goods SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock - $2 >= 0`,
		o.GoodsID, o.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to hold stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if qerr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM goods WHERE id = $1)`, o.GoodsID).Scan(&exists); qerr != nil {
			return nil, fmt.Errorf("failed to check goods existence: %w", qerr)
		}
		if !exists {
			return nil, domain.ErrGoodsNotFound
		}
		return nil, domain.ErrInsufficientStock
	}

	created, err := scanOrder(tx.QueryRow(ctx, insertOrderSQL, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return created, nil
}

// UpdateStatus is a compare-and-swap transition mirroring
// BookingRepo.UpdateStatus.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, entry domain.HistoryEntry) (*domain.Order, error) {
	entryJSON, err := marshalJSONB(entry)
	if err != nil {
		return nil, err
	}

	o, err := scanOrder(r.pool.QueryRow(ctx, `
		UPDATE orders SET
			status = $3,
			history = $4::jsonb || history,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns,
		id, from, to, entryJSON))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if qerr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); qerr != nil {
			return nil, fmt.Errorf("failed to check order existence: %w", qerr)
		}
		if !exists {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.ErrStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) SetDepositorName(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET depositor_name = $2, updated_at = NOW()
		WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("failed to set depositor name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// AttachReceipt stores the uploaded transfer receipt and records it in the
// order history, newest first.
func (r *OrderRepo) AttachReceipt(ctx context.Context, id uuid.UUID, image string, entry domain.HistoryEntry) (*domain.Order, error) {
	entryJSON, err := marshalJSONB(entry)
	if err != nil {
		return nil, err
	}

	o, err := scanOrder(r.pool.QueryRow(ctx, `
		UPDATE orders SET
			receipt_image = $2,
			history = $3::jsonb || history,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, image, entryJSON))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to attach receipt: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) UpdateAdminMemo(ctx context.Context, id uuid.UUID, memo string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET admin_memo = $2, updated_at = NOW()
		WHERE id = $1`, id, memo)
	if err != nil {
		return fmt.Errorf("failed to update admin memo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Order, int, error) {
	p = p.Clamp()

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, customerID, p.Size, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter, p domain.Pagination) ([]domain.Order, int, error) {
	p = p.Clamp()
	where, args := orderFilterClauses(f)

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	args = append(args, p.Size, p.Offset())
	limits := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders`+where+` ORDER BY created_at DESC`+limits, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func orderFilterClauses(f domain.OrderFilter) (string, []any) {
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
	if f.CustomerID != nil {
		add("customer_id = ", *f.CustomerID)
	}
	if f.From != nil {
		add("created_at >= ", *f.From)
	}
	if f.To != nil {
		add("created_at < ", *f.To)
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := "$" + strconv.Itoa(len(args))
		clauses = append(clauses, "(code ILIKE "+n+" OR buyer->>'name' ILIKE "+n+" OR depositor_name ILIKE "+n+")")
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

// ListExpired returns awaiting-payment orders whose deadline has passed.
func (r *OrderRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status IN ('created', 'awaiting_deposit') AND expires_at < $1
		ORDER BY expires_at`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
