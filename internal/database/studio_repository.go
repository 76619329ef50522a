package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

type StudioRepo struct {
	pool *pgxpool.Pool
}

func NewStudioRepo(pool *pgxpool.Pool) *StudioRepo {
	return &StudioRepo{pool: pool}
}

const studioColumns = `name_i18n, bio_i18n, address, map_url, phone, email, sns,
	hours_i18n, bank, updated_at`

func scanStudio(row pgx.Row) (*domain.Studio, error) {
	var (
		s                                   domain.Studio
		nameI18n, bioI18n, sns, hours, bank []byte
	)
	err := row.Scan(
		&nameI18n, &bioI18n, &s.Address, &s.MapURL, &s.Phone, &s.Email, &sns,
		&hours, &bank, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(nameI18n, &s.NameI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(bioI18n, &s.BioI18n); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(sns, &s.SNS); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(hours, &s.Hours); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(bank, &s.Bank); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get reads the singleton row seeded by the initial migration.
func (r *StudioRepo) Get(ctx context.Context) (*domain.Studio, error) {
	s, err := scanStudio(r.pool.QueryRow(ctx, `SELECT `+studioColumns+` FROM studio WHERE id`))
	if err != nil {
		return nil, fmt.Errorf("failed to get studio profile: %w", err)
	}
	return s, nil
}

func (r *StudioRepo) Update(ctx context.Context, s *domain.Studio) (*domain.Studio, error) {
	nameI18n, err := marshalJSONB(s.NameI18n)
	if err != nil {
		return nil, err
	}
	bioI18n, err := marshalJSONB(s.BioI18n)
	if err != nil {
		return nil, err
	}
	sns, err := marshalJSONB(s.SNS)
	if err != nil {
		return nil, err
	}
	hours, err := marshalJSONB(s.Hours)
	if err != nil {
		return nil, err
	}
	bank, err := marshalJSONB(s.Bank)
	if err != nil {
		return nil, err
	}

	updated, err := scanStudio(r.pool.QueryRow(ctx, `
		UPDATE studio SET
			name_i18n = $1, bio_i18n = $2, address = $3, map_url = $4, phone = $5,
			email = $6, sns = $7, hours_i18n = $8, bank = $9, updated_at = NOW()
		WHERE id
		RETURNING `+studioColumns,
		nameI18n, bioI18n, s.Address, s.MapURL, s.Phone, s.Email, sns, hours, bank))
	if err != nil {
		return nil, fmt.Errorf("failed to update studio profile: %w", err)
	}
	return updated, nil
}
