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

type GoodsRepo struct {
	pool *pgxpool.Pool
}

func NewGoodsRepo(pool *pgxpool.Pool) *GoodsRepo {
	return &GoodsRepo{pool: pool}
}

const goodsColumns = `id, slug, name_i18n, desc_i18n, price_amount, price_currency,
	stock, status, images, display_order, created_at, updated_at`

func scanGoods(row pgx.Row) (*domain.Goods, error) {
	var (
		g                          domain.Goods
		nameI18n, descI18n, images []byte
	)
	err := row.Scan(
		&g.ID, &g.Slug, &nameI18n, &descI18n, &g.Price.Amount, &g.Price.Currency,
		&g.Stock, &g.Status, &images, &g.DisplayOrder, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(nameI18n, &g.NameI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(descI18n, &g.DescI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(images, &g.Images); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoodsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goods, error) {
	g, err := scanGoods(r.pool.QueryRow(ctx, `SELECT `+goodsColumns+` FROM goods WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGoodsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goods by ID: %w", err)
	}
	return g, nil
}

func (r *GoodsRepo) GetBySlug(ctx context.Context, slug string) (*domain.Goods, error) {
	g, err := scanGoods(r.pool.QueryRow(ctx, `SELECT `+goodsColumns+` FROM goods WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGoodsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goods by slug: %w", err)
	}
	return g, nil
}

func (r *GoodsRepo) ListVisible(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
	return r.list(ctx, ` WHERE status <> 'hidden'`, p)
}

func (r *GoodsRepo) List(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
	return r.list(ctx, ``, p)
}

func (r *GoodsRepo) list(ctx context.Context, where string, p domain.Pagination) ([]domain.Goods, int, error) {
	p = p.Clamp()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM goods`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count goods: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+goodsColumns+` FROM goods`+where+`
		ORDER BY display_order, created_at
		LIMIT $1 OFFSET $2`, p.Size, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list goods: %w", err)
	}
	defer rows.Close()

	var goods []domain.Goods
	for rows.Next() {
		g, err := scanGoods(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan goods: %w", err)
		}
		goods = append(goods, *g)
	}
	return goods, total, rows.Err()
}

func (r *GoodsRepo) Create(ctx context.Context, g *domain.Goods) (*domain.Goods, error) {
	nameI18n, err := marshalJSONB(g.NameI18n)
	if err != nil {
		return nil, err
	}
	descI18n, err := marshalJSONB(g.DescI18n)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSONBArray(g.Images)
	if err != nil {
		return nil, err
	}

	created, err := scanGoods(r.pool.QueryRow(ctx, `
		INSERT INTO goods (slug, name_i18n, desc_i18n, price_amount, price_currency,
			stock, status, images, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+goodsColumns,
		g.Slug, nameI18n, descI18n, g.Price.Amount, g.Price.Currency,
		g.Stock, g.Status, images, g.DisplayOrder))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create goods: %w", err)
	}
	return created, nil
}

func (r *GoodsRepo) Update(ctx context.Context, g *domain.Goods) (*domain.Goods, error) {
	nameI18n, err := marshalJSONB(g.NameI18n)
	if err != nil {
		return nil, err
	}
	descI18n, err := marshalJSONB(g.DescI18n)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSONBArray(g.Images)
	if err != nil {
		return nil, err
	}

	updated, err := scanGoods(r.pool.QueryRow(ctx, `
		UPDATE goods SET
			slug = $2, name_i18n = $3, desc_i18n = $4, price_amount = $5, price_currency = $6,
			stock = $7, status = $8, images = $9, display_order = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING `+goodsColumns,
		g.ID, g.Slug, nameI18n, descI18n, g.Price.Amount, g.Price.Currency,
		g.Stock, g.Status, images, g.DisplayOrder))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGoodsNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update goods: %w", err)
	}
	return updated, nil
}

// AdjustStock applies a signed delta. The WHERE guard keeps stock from going
// negative without relying on the CHECK constraint error path.
func (r *GoodsRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Goods, error) {
	g, err := scanGoods(r.pool.QueryRow(ctx, `
		UPDATE goods SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING `+goodsColumns,
		id, delta))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if qerr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM goods WHERE id = $1)`, id).Scan(&exists); qerr != nil {
			return nil, fmt.Errorf("failed to check goods existence: %w", qerr)
		}
		if !exists {
			return nil, domain.ErrGoodsNotFound
		}
		return nil, domain.ErrInsufficientStock
	}
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	return g, nil
}

func (r *GoodsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM goods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goods: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoodsNotFound
	}
	return nil
}
