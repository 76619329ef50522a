package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

type AuthTokenRepo struct {
	pool *pgxpool.Pool
}

func NewAuthTokenRepo(pool *pgxpool.Pool) *AuthTokenRepo {
	return &AuthTokenRepo{pool: pool}
}

func (r *AuthTokenRepo) Create(ctx context.Context, t *domain.AuthToken) (*domain.AuthToken, error) {
	var created domain.AuthToken
	err := r.pool.QueryRow(ctx, `
		INSERT INTO auth_tokens (jti, email, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, jti, email, expires_at, used_at, created_at`,
		t.JTI, t.Email, t.ExpiresAt).Scan(
		&created.ID, &created.JTI, &created.Email, &created.ExpiresAt, &created.UsedAt, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth token: %w", err)
	}
	return &created, nil
}

// ConsumeByJTI marks the token used exactly once. The used_at IS NULL guard
// makes a second use, an expired token, and an unknown jti all look the same
// to the caller: ErrTokenNotFound.
func (r *AuthTokenRepo) ConsumeByJTI(ctx context.Context, jti string, now time.Time) (*domain.AuthToken, error) {
	var t domain.AuthToken
	err := r.pool.QueryRow(ctx, `
		UPDATE auth_tokens SET used_at = $2
		WHERE jti = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING id, jti, email, expires_at, used_at, created_at`,
		jti, now).Scan(
		&t.ID, &t.JTI, &t.Email, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume auth token: %w", err)
	}
	return &t, nil
}

func (r *AuthTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired auth tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
