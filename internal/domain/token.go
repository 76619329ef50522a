package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthToken tracks a single-use magic-link token by its JWT ID. A token is
// spent exactly once; ConsumeByJTI fails with ErrTokenNotFound when the
// token is unknown, expired, or already used.
type AuthToken struct {
	ID        uuid.UUID
	JTI       string
	Email     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// AuthTokenRepository abstracts magic-link token persistence.
type AuthTokenRepository interface {
	Create(ctx context.Context, t *AuthToken) (*AuthToken, error)
	ConsumeByJTI(ctx context.Context, jti string, now time.Time) (*AuthToken, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Session is an authenticated browser session backed by Redis.
type Session struct {
	ID        string
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore abstracts session persistence with TTL semantics.
type SessionStore interface {
	Create(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}
