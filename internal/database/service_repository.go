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

type ServiceRepo struct {
	pool *pgxpool.Pool
}

func NewServiceRepo(pool *pgxpool.Pool) *ServiceRepo {
	return &ServiceRepo{pool: pool}
}

const serviceColumns = `id, code, name_i18n, desc_i18n, duration_min, level, policy,
	price_amount, price_currency, images, is_active, display_order, created_at, updated_at`

func scanService(row pgx.Row) (*domain.Service, error) {
	var (
		s                  domain.Service
		nameI18n, descI18n []byte
		policy, images     []byte
	)
	err := row.Scan(
		&s.ID, &s.Code, &nameI18n, &descI18n, &s.DurationMin, &s.Level, &policy,
		&s.Price.Amount, &s.Price.Currency, &images, &s.IsActive, &s.DisplayOrder,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(nameI18n, &s.NameI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(descI18n, &s.DescI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(policy, &s.Policy); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(images, &s.Images); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	s, err := scanService(r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service by ID: %w", err)
	}
	return s, nil
}

func (r *ServiceRepo) GetByCode(ctx context.Context, code string) (*domain.Service, error) {
	s, err := scanService(r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service by code: %w", err)
	}
	return s, nil
}

func (r *ServiceRepo) ListActive(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+` FROM services
		WHERE is_active
		ORDER BY display_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active services: %w", err)
	}
	defer rows.Close()
	return collectServices(rows)
}

func (r *ServiceRepo) List(ctx context.Context, p domain.Pagination) ([]domain.Service, int, error) {
	p = p.Clamp()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+` FROM services
		ORDER BY display_order, created_at
		LIMIT $1 OFFSET $2`, p.Size, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	svcs, err := collectServices(rows)
	if err != nil {
		return nil, 0, err
	}
	return svcs, total, nil
}

func (r *ServiceRepo) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	nameI18n, err := marshalJSONB(svc.NameI18n)
	if err != nil {
		return nil, err
	}
	descI18n, err := marshalJSONB(svc.DescI18n)
	if err != nil {
		return nil, err
	}
	policy, err := marshalJSONB(svc.Policy)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSONBArray(svc.Images)
	if err != nil {
		return nil, err
	}

	s, err := scanService(r.pool.QueryRow(ctx, `
		INSERT INTO services (code, name_i18n, desc_i18n, duration_min, level, policy,
			price_amount, price_currency, images, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+serviceColumns,
		svc.Code, nameI18n, descI18n, svc.DurationMin, svc.Level, policy,
		svc.Price.Amount, svc.Price.Currency, images, svc.IsActive, svc.DisplayOrder))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s, nil
}

func (r *ServiceRepo) Update(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	nameI18n, err := marshalJSONB(svc.NameI18n)
	if err != nil {
		return nil, err
	}
	descI18n, err := marshalJSONB(svc.DescI18n)
	if err != nil {
		return nil, err
	}
	policy, err := marshalJSONB(svc.Policy)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSONBArray(svc.Images)
	if err != nil {
		return nil, err
	}

	s, err := scanService(r.pool.QueryRow(ctx, `
		UPDATE services SET
			code = $2, name_i18n = $3, desc_i18n = $4, duration_min = $5, level = $6,
			policy = $7, price_amount = $8, price_currency = $9, images = $10,
			is_active = $11, display_order = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING `+serviceColumns,
		svc.ID, svc.Code, nameI18n, descI18n, svc.DurationMin, svc.Level, policy,
		svc.Price.Amount, svc.Price.Currency, images, svc.IsActive, svc.DisplayOrder))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return s, nil
}

func (r *ServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

func collectServices(rows pgx.Rows) ([]domain.Service, error) {
	var svcs []domain.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		svcs = append(svcs, *s)
	}
	return svcs, rows.Err()
}
