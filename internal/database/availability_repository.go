package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

type AvailabilityRepo struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepo(pool *pgxpool.Pool) *AvailabilityRepo {
	return &AvailabilityRepo{pool: pool}
}

const availabilityColumns = `base_days, pending_base_days, base_days_effective_from,
	rules, exceptions, updated_at`

func scanAvailability(row pgx.Row) (*domain.Availability, error) {
	var (
		a                                        domain.Availability
		baseDays, pendingDays, rules, exceptions []byte
	)
	err := row.Scan(
		&baseDays, &pendingDays, &a.BaseDaysEffectiveFrom,
		&rules, &exceptions, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(baseDays, &a.BaseDays); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(pendingDays, &a.PendingBaseDays); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(rules, &a.Rules); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(exceptions, &a.Exceptions); err != nil {
		return nil, err
	}
	return &a, nil
}

// Get reads the singleton row seeded by the initial migration.
func (r *AvailabilityRepo) Get(ctx context.Context) (*domain.Availability, error) {
	a, err := scanAvailability(r.pool.QueryRow(ctx, `SELECT `+availabilityColumns+` FROM availability WHERE id`))
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return a, nil
}

func (r *AvailabilityRepo) Update(ctx context.Context, a *domain.Availability) (*domain.Availability, error) {
	baseDays, err := marshalJSONBArray(a.BaseDays)
	if err != nil {
		return nil, err
	}
	rules, err := marshalJSONBArray(a.Rules)
	if err != nil {
		return nil, err
	}
	exceptions, err := marshalJSONBArray(a.Exceptions)
	if err != nil {
		return nil, err
	}

	// pending_base_days is nullable: NULL means no change staged.
	var pendingDays any
	if a.PendingBaseDays != nil {
		pendingDays, err = marshalJSONBArray(a.PendingBaseDays)
		if err != nil {
			return nil, err
		}
	}

	updated, err := scanAvailability(r.pool.QueryRow(ctx, `
		UPDATE availability SET
			base_days = $1, pending_base_days = $2, base_days_effective_from = $3,
			rules = $4, exceptions = $5, updated_at = NOW()
		WHERE id
		RETURNING `+availabilityColumns,
		baseDays, pendingDays, a.BaseDaysEffectiveFrom, rules, exceptions))
	if err != nil {
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	return updated, nil
}
