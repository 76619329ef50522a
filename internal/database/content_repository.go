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

type WorkRepo struct {
	pool *pgxpool.Pool
}

func NewWorkRepo(pool *pgxpool.Pool) *WorkRepo {
	return &WorkRepo{pool: pool}
}

const workColumns = `id, slug, title_i18n, desc_i18n, images, tags, is_published,
	display_order, created_at, updated_at`

func scanWork(row pgx.Row) (*domain.Work, error) {
	var (
		w                                 domain.Work
		titleI18n, descI18n, images, tags []byte
	)
	err := row.Scan(
		&w.ID, &w.Slug, &titleI18n, &descI18n, &images, &tags, &w.IsPublished,
		&w.DisplayOrder, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(titleI18n, &w.TitleI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(descI18n, &w.DescI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(images, &w.Images); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(tags, &w.Tags); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Work, error) {
	w, err := scanWork(r.pool.QueryRow(ctx, `SELECT `+workColumns+` FROM works WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWorkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work by ID: %w", err)
	}
	return w, nil
}

func (r *WorkRepo) GetBySlug(ctx context.Context, slug string) (*domain.Work, error) {
	w, err := scanWork(r.pool.QueryRow(ctx, `SELECT `+workColumns+` FROM works WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWorkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work by slug: %w", err)
	}
	return w, nil
}

func (r *WorkRepo) ListPublished(ctx context.Context, tag string, p domain.Pagination) ([]domain.Work, int, error) {
	p = p.Clamp()
	where := ` WHERE is_published`
	args := []any{}
	if tag != "" {
		where += ` AND tags ? $1`
		args = append(args, tag)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM works`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count works: %w", err)
	}

	args = append(args, p.Size, p.Offset())
	limits := fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, `SELECT `+workColumns+` FROM works`+where+` ORDER BY display_order, created_at DESC`+limits, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list works: %w", err)
	}
	defer rows.Close()

	works, err := collectWorks(rows)
	if err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

func (r *WorkRepo) List(ctx context.Context, p domain.Pagination) ([]domain.Work, int, error) {
	p = p.Clamp()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM works`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count works: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+workColumns+` FROM works
		ORDER BY display_order, created_at DESC
		LIMIT $1 OFFSET $2`, p.Size, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list works: %w", err)
	}
	defer rows.Close()

	works, err := collectWorks(rows)
	if err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

func (r *WorkRepo) Create(ctx context.Context, w *domain.Work) (*domain.Work, error) {
	titleI18n, err := marshalJSONB(w.TitleI18n)
	if err != nil {
		return nil, err
	}
	descI18n, err := marshalJSONB(w.DescI18n)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSONBArray(w.Images)
	if err != nil {
		return nil, err
	}
	tags, err := marshalJSONBArray(w.Tags)
	if err != nil {
		return nil, err
	}

	created, err := scanWork(r.pool.QueryRow(ctx, `
		INSERT INTO works (slug, title_i18n, desc_i18n, images, tags, is_published, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+workColumns,
		w.Slug, titleI18n, descI18n, images, tags, w.IsPublished, w.DisplayOrder))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create work: %w", err)
	}
	return created, nil
}

func (r *WorkRepo) Update(ctx context.Context, w *domain.Work) (*domain.Work, error) {
	titleI18n, err := marshalJSONB(w.TitleI18n)
	if err != nil {
		return nil, err
	}
	descI18n, err := marshalJSONB(w.DescI18n)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSONBArray(w.Images)
	if err != nil {
		return nil, err
	}
	tags, err := marshalJSONBArray(w.Tags)
	if err != nil {
		return nil, err
	}

	updated, err := scanWork(r.pool.QueryRow(ctx, `
		UPDATE works SET
			slug = $2, title_i18n = $3, desc_i18n = $4, images = $5, tags = $6,
			is_published = $7, display_order = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+workColumns,
		w.ID, w.Slug, titleI18n, descI18n, images, tags, w.IsPublished, w.DisplayOrder))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWorkNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update work: %w", err)
	}
	return updated, nil
}

func (r *WorkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM works WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkNotFound
	}
	return nil
}

func collectWorks(rows pgx.Rows) ([]domain.Work, error) {
	var works []domain.Work
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work: %w", err)
		}
		works = append(works, *w)
	}
	return works, rows.Err()
}

type NewsRepo struct {
	pool *pgxpool.Pool
}

func NewNewsRepo(pool *pgxpool.Pool) *NewsRepo {
	return &NewsRepo{pool: pool}
}

const newsColumns = `id, slug, title_i18n, body_i18n, images, is_published,
	published_at, created_at, updated_at`

func scanNews(row pgx.Row) (*domain.News, error) {
	var (
		n                           domain.News
		titleI18n, bodyI18n, images []byte
	)
	err := row.Scan(
		&n.ID, &n.Slug, &titleI18n, &bodyI18n, &images, &n.IsPublished,
		&n.PublishedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(titleI18n, &n.TitleI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(bodyI18n, &n.BodyI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(images, &n.Images); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NewsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	n, err := scanNews(r.pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNewsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news by ID: %w", err)
	}
	return n, nil
}

func (r *NewsRepo) GetBySlug(ctx context.Context, slug string) (*domain.News, error) {
	n, err := scanNews(r.pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNewsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news by slug: %w", err)
	}
	return n, nil
}

func (r *NewsRepo) ListPublished(ctx context.Context, p domain.Pagination) ([]domain.News, int, error) {
	return r.list(ctx, ` WHERE is_published`, ` ORDER BY published_at DESC NULLS LAST`, p)
}

func (r *NewsRepo) List(ctx context.Context, p domain.Pagination) ([]domain.News, int, error) {
	return r.list(ctx, ``, ` ORDER BY created_at DESC`, p)
}

func (r *NewsRepo) list(ctx context.Context, where, order string, p domain.Pagination) ([]domain.News, int, error) {
	p = p.Clamp()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM news`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count news: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+newsColumns+` FROM news`+where+order+` LIMIT $1 OFFSET $2`, p.Size, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var items []domain.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan news: %w", err)
		}
		items = append(items, *n)
	}
	return items, total, rows.Err()
}

func (r *NewsRepo) Create(ctx context.Context, n *domain.News) (*domain.News, error) {
	titleI18n, err := marshalJSONB(n.TitleI18n)
	if err != nil {
		return nil, err
	}
	bodyI18n, err := marshalJSONB(n.BodyI18n)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSONBArray(n.Images)
	if err != nil {
		return nil, err
	}

	created, err := scanNews(r.pool.QueryRow(ctx, `
		INSERT INTO news (slug, title_i18n, body_i18n, images, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+newsColumns,
		n.Slug, titleI18n, bodyI18n, images, n.IsPublished, n.PublishedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create news: %w", err)
	}
	return created, nil
}

func (r *NewsRepo) Update(ctx context.Context, n *domain.News) (*domain.News, error) {
	titleI18n, err := marshalJSONB(n.TitleI18n)
	if err != nil {
		return nil, err
	}
	bodyI18n, err := marshalJSONB(n.BodyI18n)
	if err != nil {
		return nil, err
	}
	images, err := marshalJSONBArray(n.Images)
	if err != nil {
		return nil, err
	}

	updated, err := scanNews(r.pool.QueryRow(ctx, `
		UPDATE news SET
			slug = $2, title_i18n = $3, body_i18n = $4, images = $5,
			is_published = $6, published_at = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+newsColumns,
		n.ID, n.Slug, titleI18n, bodyI18n, images, n.IsPublished, n.PublishedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNewsNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update news: %w", err)
	}
	return updated, nil
}

func (r *NewsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNewsNotFound
	}
	return nil
}
