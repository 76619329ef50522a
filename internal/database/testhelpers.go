package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

// CreateTestUser creates a customer with defaults for testing.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, email string) *domain.User {
	t.Helper()

	repo := NewUserRepo(pool)
	user, err := repo.EnsureByEmail(context.Background(), email, domain.LangKo)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	return user
}

// CreateTestService creates an active 60-minute class for testing.
func CreateTestService(t *testing.T, pool *pgxpool.Pool, code string) *domain.Service {
	t.Helper()

	repo := NewServiceRepo(pool)
	svc, err := repo.Create(context.Background(), &domain.Service{
		Code:        code,
		NameI18n:    domain.I18n{domain.LangKo: "기초 펜글씨", domain.LangEn: "Beginner Pen Lettering"},
		DurationMin: 60,
		Level:       "beginner",
		Policy:      domain.Policy{CancelBeforeHours: 24, ChangeBeforeHours: 24, NoShowAfterMin: 15},
		Price:       domain.Money{Amount: 50000, Currency: domain.CurrencyKRW},
		IsActive:    true,
	})
	require.NoError(t, err)

	return svc
}

// CreateTestBooking creates a requested booking at startAt for testing.
func CreateTestBooking(t *testing.T, pool *pgxpool.Pool, customerID, serviceID uuid.UUID, startAt time.Time) *domain.Booking {
	t.Helper()

	repo := NewBookingRepo(pool)
	b, err := repo.Create(context.Background(), &domain.Booking{
		Code:           fmt.Sprintf("BKG-%s-%s", startAt.Format("20060102"), uuid.NewString()[:6]),
		CustomerID:     customerID,
		ServiceID:      serviceID,
		StartAt:        startAt,
		EndAt:          startAt.Add(time.Hour),
		Status:         domain.BookingRequested,
		Source:         domain.SourceWeb,
		PolicySnapshot: domain.Policy{CancelBeforeHours: 24, ChangeBeforeHours: 24, NoShowAfterMin: 15},
	})
	require.NoError(t, err)

	return b
}

// CreateTestGoods creates an in-stock goods row for testing.
func CreateTestGoods(t *testing.T, pool *pgxpool.Pool, slug string, stock int) *domain.Goods {
	t.Helper()

	repo := NewGoodsRepo(pool)
	g, err := repo.Create(context.Background(), &domain.Goods{
		Slug:     slug,
		NameI18n: domain.I18n{domain.LangKo: "만년필 잉크", domain.LangEn: "Fountain Pen Ink"},
		Price:    domain.Money{Amount: 18000, Currency: domain.CurrencyKRW},
		Stock:    stock,
		Status:   domain.GoodsActive,
	})
	require.NoError(t, err)

	return g
}
