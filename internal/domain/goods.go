package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GoodsStatus controls storefront visibility independent of stock.
type GoodsStatus string

const (
	GoodsActive  GoodsStatus = "active"
	GoodsSoldOut GoodsStatus = "sold_out"
	GoodsHidden  GoodsStatus = "hidden"
)

func (s GoodsStatus) Valid() bool {
	switch s {
	case GoodsActive, GoodsSoldOut, GoodsHidden:
		return true
	}
	return false
}

// Goods is a physical item sold via bank-transfer orders (pens, ink, prints).
type Goods struct {
	ID           uuid.UUID
	Slug         string
	NameI18n     I18n
	DescI18n     I18n
	Price        Money
	Stock        int
	Status       GoodsStatus
	Images       []string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GoodsRepository abstracts goods persistence. AdjustStock applies a signed
// delta atomically and returns ErrInsufficientStock when the result would go
// negative.
type GoodsRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Goods, error)
	GetBySlug(ctx context.Context, slug string) (*Goods, error)
	ListVisible(ctx context.Context, p Pagination) ([]Goods, int, error)
	List(ctx context.Context, p Pagination) ([]Goods, int, error)
	Create(ctx context.Context, g *Goods) (*Goods, error)
	Update(ctx context.Context, g *Goods) (*Goods, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Goods, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
