package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Policy is the cutoff policy snapshot attached to a service and copied onto
// each booking at create time, so later policy edits never change the rules an
// existing booking was accepted under.
type Policy struct {
	CancelBeforeHours int `json:"cancel_before_hours"`
	ChangeBeforeHours int `json:"change_before_hours"`
	NoShowAfterMin    int `json:"no_show_after_min"`
}

// Service is a bookable class offering (e.g. beginner pen lettering, 60 min).
type Service struct {
	ID           uuid.UUID
	Code         string
	NameI18n     I18n
	DescI18n     I18n
	DurationMin  int
	Level        string
	Policy       Policy
	Price        Money
	Images       []string
	IsActive     bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ServiceRepository abstracts class offering persistence.
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	GetByCode(ctx context.Context, code string) (*Service, error)
	ListActive(ctx context.Context) ([]Service, error)
	List(ctx context.Context, p Pagination) ([]Service, int, error)
	Create(ctx context.Context, svc *Service) (*Service, error)
	Update(ctx context.Context, svc *Service) (*Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
