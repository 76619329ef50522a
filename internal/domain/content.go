package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Work is a gallery piece.
type Work struct {
	ID           uuid.UUID
	Slug         string
	TitleI18n    I18n
	DescI18n     I18n
	Images       []string
	Tags         []string
	IsPublished  bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// News is a studio announcement.
type News struct {
	ID          uuid.UUID
	Slug        string
	TitleI18n   I18n
	BodyI18n    I18n
	Images      []string
	IsPublished bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkRepository abstracts gallery persistence.
type WorkRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Work, error)
	GetBySlug(ctx context.Context, slug string) (*Work, error)
	ListPublished(ctx context.Context, tag string, p Pagination) ([]Work, int, error)
	List(ctx context.Context, p Pagination) ([]Work, int, error)
	Create(ctx context.Context, w *Work) (*Work, error)
	Update(ctx context.Context, w *Work) (*Work, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewsRepository abstracts announcement persistence.
type NewsRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*News, error)
	GetBySlug(ctx context.Context, slug string) (*News, error)
	ListPublished(ctx context.Context, p Pagination) ([]News, int, error)
	List(ctx context.Context, p Pagination) ([]News, int, error)
	Create(ctx context.Context, n *News) (*News, error)
	Update(ctx context.Context, n *News) (*News, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
