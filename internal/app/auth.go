package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
	"github.com/CelestynPark/PenArt-Reservation/internal/metrics"
)

// LogMailer writes magic links to the log instead of sending mail. Used in
// development and as the fallback when no mailer is configured.
type LogMailer struct{}

func (LogMailer) SendMagicLink(_ context.Context, email, link string) error {
	slog.Info("magic link issued", "email", email, "link", link)
	return nil
}

type magicLinkClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RequestMagicLink issues a single-use login token for email and hands the
// verification link to the mailer. Unknown addresses get a link too; the
// account is created lazily on first verification.
func (s *Service) RequestMagicLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.Validation("invalid email address")
	}

	now := s.clock.Now()
	jti := uuid.NewString()
	claims := magicLinkClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.MagicLinkTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return apperrors.Internal("failed to sign login token", err)
	}

	if _, err := s.tokens.Create(ctx, &domain.AuthToken{
		JTI:       jti,
		Email:     email,
		ExpiresAt: now.Add(s.cfg.MagicLinkTTL).UTC(),
	}); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s", strings.TrimRight(s.cfg.BaseURL, "/"), signed)
	if err := s.mailer.SendMagicLink(ctx, email, link); err != nil {
		return apperrors.Internal("failed to send login link", err)
	}

	metrics.MagicLinksIssuedTotal.Inc()
	return nil
}

// VerifyMagicLink validates and consumes a login token, creating the user on
// first login, and opens a session. The returned session ID goes into the
// auth cookie.
func (s *Service) VerifyMagicLink(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	var claims magicLinkClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.cfg.SecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		metrics.MagicLinkVerifiesTotal.WithLabelValues("invalid").Inc()
		return nil, nil, apperrors.Unauthorized("invalid or expired login link")
	}

	now := s.clock.Now()
	if _, err := s.tokens.ConsumeByJTI(ctx, claims.ID, now); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			metrics.MagicLinkVerifiesTotal.WithLabelValues("consumed").Inc()
			return nil, nil, apperrors.Unauthorized("login link already used or expired")
		}
		return nil, nil, err
	}

	user, err := s.users.EnsureByEmail(ctx, claims.Email, s.cfg.DefaultLang)
	if err != nil {
		return nil, nil, err
	}
	if user.EmailVerifiedAt == nil {
		if err := s.users.MarkEmailVerified(ctx, user.ID, now); err != nil {
			return nil, nil, err
		}
	}
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, nil, err
	}

	sess := &domain.Session{
		ID:        newSessionID(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.cfg.SessionMaxAge).UTC(),
	}
	if err := s.sessions.Create(ctx, sess, s.cfg.SessionMaxAge); err != nil {
		return nil, nil, err
	}

	metrics.MagicLinkVerifiesTotal.WithLabelValues("ok").Inc()
	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return sess, user, nil
}

// GetSession resolves a session ID to its session and user.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, *domain.User, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, apperrors.Unauthorized("session expired")
		}
		return nil, nil, err
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	return sess, user, nil
}

// Logout revokes a single session. Revoking an unknown session is a no-op.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// LogoutAll revokes every session of the user.
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RevokeAllForUser(ctx, userID)
}

// GetProfile returns the caller's own account.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies the customer-editable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	if upd.LangPref != nil {
		switch *upd.LangPref {
		case "ko", "en":
		default:
			return nil, apperrors.Validation("language must be 'ko' or 'en'")
		}
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperrors.Validation("name cannot be empty")
	}
	return s.users.Update(ctx, userID, upd)
}

// newSessionID returns 32 bytes of URL-safe randomness.
func newSessionID() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
