package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes customers from back-office admins.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ChannelPrefs records per-channel notification opt-in state.
type ChannelPrefs struct {
	Email ChannelPref `json:"email"`
	SMS   ChannelPref `json:"sms"`
	Kakao ChannelPref `json:"kakao"`
}

type ChannelPref struct {
	Enabled    bool       `json:"enabled"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// Consents records when the user agreed to terms and privacy policy.
type Consents struct {
	TosAt     *time.Time `json:"tos_at,omitempty"`
	PrivacyAt *time.Time `json:"privacy_at,omitempty"`
}

type User struct {
	ID              uuid.UUID
	Role            Role
	Name            string
	Email           string
	Phone           string
	LangPref        string
	Channels        ChannelPrefs
	Consents        Consents
	IsActive        bool
	EmailVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserUpdate carries the customer-editable profile fields; nil means unchanged.
type UserUpdate struct {
	Name     *string
	Phone    *string
	LangPref *string
	Channels *ChannelPrefs
}

// UserRepository abstracts user persistence.
type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// EnsureByEmail returns the existing user for email or lazily creates a
	// customer record with defaults.
	EnsureByEmail(ctx context.Context, email, defaultLang string) (*User, error)
	Update(ctx context.Context, userID uuid.UUID, upd UserUpdate) (*User, error)
	MarkEmailVerified(ctx context.Context, userID uuid.UUID, at time.Time) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	Search(ctx context.Context, query string, limit int) ([]User, error)
}
