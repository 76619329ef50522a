package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

// --- Mock implementations ---

type mockUserRepo struct {
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn        func(ctx context.Context, email string) (*domain.User, error)
	ensureByEmailFn     func(ctx context.Context, email, defaultLang string) (*domain.User, error)
	updateFn            func(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error)
	markEmailVerifiedFn func(ctx context.Context, userID uuid.UUID, at time.Time) error
	touchLastLoginFn    func(ctx context.Context, userID uuid.UUID, at time.Time) error
	searchFn            func(ctx context.Context, query string, limit int) ([]domain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) EnsureByEmail(ctx context.Context, email, defaultLang string) (*domain.User, error) {
	if m.ensureByEmailFn != nil {
		return m.ensureByEmailFn(ctx, email, defaultLang)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) Update(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, upd)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) MarkEmailVerified(ctx context.Context, userID uuid.UUID, at time.Time) error {
	if m.markEmailVerifiedFn != nil {
		return m.markEmailVerifiedFn(ctx, userID, at)
	}
	return nil
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	if m.touchLastLoginFn != nil {
		return m.touchLastLoginFn(ctx, userID, at)
	}
	return nil
}

func (m *mockUserRepo) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

type mockServiceRepo struct {
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	getByCodeFn  func(ctx context.Context, code string) (*domain.Service, error)
	listActiveFn func(ctx context.Context) ([]domain.Service, error)
	listFn       func(ctx context.Context, p domain.Pagination) ([]domain.Service, int, error)
	createFn     func(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	updateFn     func(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockServiceRepo) GetByCode(ctx context.Context, code string) (*domain.Service, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockServiceRepo) ListActive(ctx context.Context) ([]domain.Service, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockServiceRepo) List(ctx context.Context, p domain.Pagination) ([]domain.Service, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, p)
	}
	return nil, 0, nil
}

func (m *mockServiceRepo) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	if m.createFn != nil {
		return m.createFn(ctx, svc)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockServiceRepo) Update(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, svc)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockBookingRepo struct {
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	getByCodeFn         func(ctx context.Context, code string) (*domain.Booking, error)
	createFn            func(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	updateStatusFn      func(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, entry domain.HistoryEntry) (*domain.Booking, error)
	setRescheduledToFn  func(ctx context.Context, id, newID uuid.UUID) error
	updateAdminMemoFn   func(ctx context.Context, id uuid.UUID, memo string) error
	listByCustomerFn    func(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Booking, int, error)
	listFn              func(ctx context.Context, f domain.BookingFilter, p domain.Pagination) ([]domain.Booking, int, error)
	listOccupiedFn      func(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]domain.Booking, error)
	listDueReminderFn   func(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Booking, error)
	markReminderSentFn  func(ctx context.Context, id uuid.UUID, at time.Time) error
	listPastConfirmedFn func(ctx context.Context, before time.Time) ([]domain.Booking, error)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockBookingRepo) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, entry domain.HistoryEntry) (*domain.Booking, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to, entry)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockBookingRepo) SetRescheduledTo(ctx context.Context, id, newID uuid.UUID) error {
	if m.setRescheduledToFn != nil {
		return m.setRescheduledToFn(ctx, id, newID)
	}
	return nil
}

func (m *mockBookingRepo) UpdateAdminMemo(ctx context.Context, id uuid.UUID, memo string) error {
	if m.updateAdminMemoFn != nil {
		return m.updateAdminMemoFn(ctx, id, memo)
	}
	return nil
}

func (m *mockBookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Booking, int, error) {
	if m.listByCustomerFn != nil {
		return m.listByCustomerFn(ctx, customerID, p)
	}
	return nil, 0, nil
}

func (m *mockBookingRepo) List(ctx context.Context, f domain.BookingFilter, p domain.Pagination) ([]domain.Booking, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f, p)
	}
	return nil, 0, nil
}

func (m *mockBookingRepo) ListOccupied(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	if m.listOccupiedFn != nil {
		return m.listOccupiedFn(ctx, serviceID, from, to)
	}
	return nil, nil
}

func (m *mockBookingRepo) ListDueReminder(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Booking, error) {
	if m.listDueReminderFn != nil {
		return m.listDueReminderFn(ctx, windowStart, windowEnd)
	}
	return nil, nil
}

func (m *mockBookingRepo) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.markReminderSentFn != nil {
		return m.markReminderSentFn(ctx, id, at)
	}
	return nil
}

func (m *mockBookingRepo) ListPastConfirmed(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	if m.listPastConfirmedFn != nil {
		return m.listPastConfirmedFn(ctx, before)
	}
	return nil, nil
}

type mockGoodsRepo struct {
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Goods, error)
	getBySlugFn   func(ctx context.Context, slug string) (*domain.Goods, error)
	listVisibleFn func(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error)
	listFn        func(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error)
	createFn      func(ctx context.Context, g *domain.Goods) (*domain.Goods, error)
	updateFn      func(ctx context.Context, g *domain.Goods) (*domain.Goods, error)
	adjustStockFn func(ctx context.Context, id uuid.UUID, delta int) (*domain.Goods, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockGoodsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goods, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGoodsRepo) GetBySlug(ctx context.Context, slug string) (*domain.Goods, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGoodsRepo) ListVisible(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
	if m.listVisibleFn != nil {
		return m.listVisibleFn(ctx, p)
	}
	return nil, 0, nil
}

func (m *mockGoodsRepo) List(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, p)
	}
	return nil, 0, nil
}

func (m *mockGoodsRepo) Create(ctx context.Context, g *domain.Goods) (*domain.Goods, error) {
	if m.createFn != nil {
		return m.createFn(ctx, g)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGoodsRepo) Update(ctx context.Context, g *domain.Goods) (*domain.Goods, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, g)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGoodsRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Goods, error) {
	if m.adjustStockFn != nil {
		return m.adjustStockFn(ctx, id, delta)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGoodsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockOrderRepo struct {
	getByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	getByCodeFn        func(ctx context.Context, code string) (*domain.Order, error)
	createFn           func(ctx context.Context, o *domain.Order) (*domain.Order, error)
	createWithHoldFn   func(ctx context.Context, o *domain.Order) (*domain.Order, error)
	updateStatusFn     func(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, entry domain.HistoryEntry) (*domain.Order, error)
	setDepositorNameFn func(ctx context.Context, id uuid.UUID, name string) error
	attachReceiptFn    func(ctx context.Context, id uuid.UUID, image string, entry domain.HistoryEntry) (*domain.Order, error)
	updateAdminMemoFn  func(ctx context.Context, id uuid.UUID, memo string) error
	listByCustomerFn   func(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Order, int, error)
	listFn             func(ctx context.Context, f domain.OrderFilter, p domain.Pagination) ([]domain.Order, int, error)
	listExpiredFn      func(ctx context.Context, now time.Time) ([]domain.Order, error)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockOrderRepo) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockOrderRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	if m.createFn != nil {
		return m.createFn(ctx, o)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockOrderRepo) CreateWithStockHold(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	if m.createWithHoldFn != nil {
		return m.createWithHoldFn(ctx, o)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, entry domain.HistoryEntry) (*domain.Order, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to, entry)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockOrderRepo) SetDepositorName(ctx context.Context, id uuid.UUID, name string) error {
	if m.setDepositorNameFn != nil {
		return m.setDepositorNameFn(ctx, id, name)
	}
	return nil
}

func (m *mockOrderRepo) AttachReceipt(ctx context.Context, id uuid.UUID, image string, entry domain.HistoryEntry) (*domain.Order, error) {
	if m.attachReceiptFn != nil {
		return m.attachReceiptFn(ctx, id, image, entry)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockOrderRepo) UpdateAdminMemo(ctx context.Context, id uuid.UUID, memo string) error {
	if m.updateAdminMemoFn != nil {
		return m.updateAdminMemoFn(ctx, id, memo)
	}
	return nil
}

func (m *mockOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Order, int, error) {
	if m.listByCustomerFn != nil {
		return m.listByCustomerFn(ctx, customerID, p)
	}
	return nil, 0, nil
}

func (m *mockOrderRepo) List(ctx context.Context, f domain.OrderFilter, p domain.Pagination) ([]domain.Order, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f, p)
	}
	return nil, 0, nil
}

func (m *mockOrderRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Order, error) {
	if m.listExpiredFn != nil {
		return m.listExpiredFn(ctx, now)
	}
	return nil, nil
}

type mockReviewRepo struct {
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	getByBookingFn   func(ctx context.Context, bookingID uuid.UUID) (*domain.Review, error)
	createFn         func(ctx context.Context, r *domain.Review) (*domain.Review, error)
	updateStatusFn   func(ctx context.Context, id uuid.UUID, to domain.ReviewStatus) (*domain.Review, error)
	listApprovedFn   func(ctx context.Context, serviceID *uuid.UUID, p domain.Pagination) ([]domain.Review, int, error)
	listFn           func(ctx context.Context, status domain.ReviewStatus, p domain.Pagination) ([]domain.Review, int, error)
	listByCustomerFn func(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Review, int, error)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockReviewRepo) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Review, error) {
	if m.getByBookingFn != nil {
		return m.getByBookingFn(ctx, bookingID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockReviewRepo) Create(ctx context.Context, r *domain.Review) (*domain.Review, error) {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockReviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.ReviewStatus) (*domain.Review, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, to)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockReviewRepo) ListApproved(ctx context.Context, serviceID *uuid.UUID, p domain.Pagination) ([]domain.Review, int, error) {
	if m.listApprovedFn != nil {
		return m.listApprovedFn(ctx, serviceID, p)
	}
	return nil, 0, nil
}

func (m *mockReviewRepo) List(ctx context.Context, status domain.ReviewStatus, p domain.Pagination) ([]domain.Review, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status, p)
	}
	return nil, 0, nil
}

func (m *mockReviewRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Review, int, error) {
	if m.listByCustomerFn != nil {
		return m.listByCustomerFn(ctx, customerID, p)
	}
	return nil, 0, nil
}

type mockWorkRepo struct {
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Work, error)
	getBySlugFn     func(ctx context.Context, slug string) (*domain.Work, error)
	listPublishedFn func(ctx context.Context, tag string, p domain.Pagination) ([]domain.Work, int, error)
	listFn          func(ctx context.Context, p domain.Pagination) ([]domain.Work, int, error)
	createFn        func(ctx context.Context, w *domain.Work) (*domain.Work, error)
	updateFn        func(ctx context.Context, w *domain.Work) (*domain.Work, error)
	deleteFn        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockWorkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Work, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockWorkRepo) GetBySlug(ctx context.Context, slug string) (*domain.Work, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockWorkRepo) ListPublished(ctx context.Context, tag string, p domain.Pagination) ([]domain.Work, int, error) {
	if m.listPublishedFn != nil {
		return m.listPublishedFn(ctx, tag, p)
	}
	return nil, 0, nil
}

func (m *mockWorkRepo) List(ctx context.Context, p domain.Pagination) ([]domain.Work, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, p)
	}
	return nil, 0, nil
}

func (m *mockWorkRepo) Create(ctx context.Context, w *domain.Work) (*domain.Work, error) {
	if m.createFn != nil {
		return m.createFn(ctx, w)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockWorkRepo) Update(ctx context.Context, w *domain.Work) (*domain.Work, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, w)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockWorkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockNewsRepo struct {
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.News, error)
	getBySlugFn     func(ctx context.Context, slug string) (*domain.News, error)
	listPublishedFn func(ctx context.Context, p domain.Pagination) ([]domain.News, int, error)
	listFn          func(ctx context.Context, p domain.Pagination) ([]domain.News, int, error)
	createFn        func(ctx context.Context, n *domain.News) (*domain.News, error)
	updateFn        func(ctx context.Context, n *domain.News) (*domain.News, error)
	deleteFn        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockNewsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockNewsRepo) GetBySlug(ctx context.Context, slug string) (*domain.News, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockNewsRepo) ListPublished(ctx context.Context, p domain.Pagination) ([]domain.News, int, error) {
	if m.listPublishedFn != nil {
		return m.listPublishedFn(ctx, p)
	}
	return nil, 0, nil
}

func (m *mockNewsRepo) List(ctx context.Context, p domain.Pagination) ([]domain.News, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, p)
	}
	return nil, 0, nil
}

func (m *mockNewsRepo) Create(ctx context.Context, n *domain.News) (*domain.News, error) {
	if m.createFn != nil {
		return m.createFn(ctx, n)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockNewsRepo) Update(ctx context.Context, n *domain.News) (*domain.News, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, n)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockNewsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockStudioRepo struct {
	getFn    func(ctx context.Context) (*domain.Studio, error)
	updateFn func(ctx context.Context, s *domain.Studio) (*domain.Studio, error)
}

func (m *mockStudioRepo) Get(ctx context.Context) (*domain.Studio, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return &domain.Studio{
		NameI18n: domain.I18n{domain.LangKo: "펜아트"},
		Bank:     domain.BankAccount{BankName: "국민은행", AccountNumber: "123-456", Holder: "펜아트"},
	}, nil
}

func (m *mockStudioRepo) Update(ctx context.Context, s *domain.Studio) (*domain.Studio, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, s)
	}
	return s, nil
}

type mockAvailabilityRepo struct {
	getFn    func(ctx context.Context) (*domain.Availability, error)
	updateFn func(ctx context.Context, a *domain.Availability) (*domain.Availability, error)
}

func (m *mockAvailabilityRepo) Get(ctx context.Context) (*domain.Availability, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return &domain.Availability{
		BaseDays: []int{2, 3, 4, 5, 6},
		Rules: []domain.Rule{
			{DOW: []int{2, 3, 4, 5, 6}, Start: "10:00", End: "18:00", SlotMin: 30},
		},
	}, nil
}

func (m *mockAvailabilityRepo) Update(ctx context.Context, a *domain.Availability) (*domain.Availability, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, a)
	}
	return a, nil
}

type mockTokenRepo struct {
	createFn        func(ctx context.Context, t *domain.AuthToken) (*domain.AuthToken, error)
	consumeByJTIFn  func(ctx context.Context, jti string, now time.Time) (*domain.AuthToken, error)
	deleteExpiredFn func(ctx context.Context, before time.Time) (int64, error)
}

func (m *mockTokenRepo) Create(ctx context.Context, t *domain.AuthToken) (*domain.AuthToken, error) {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return t, nil
}

func (m *mockTokenRepo) ConsumeByJTI(ctx context.Context, jti string, now time.Time) (*domain.AuthToken, error) {
	if m.consumeByJTIFn != nil {
		return m.consumeByJTIFn(ctx, jti, now)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, before)
	}
	return 0, nil
}

// mockAuditRepo records appended entries for assertions.
type mockAuditRepo struct {
	entries  []*domain.AuditEntry
	appendFn func(ctx context.Context, e *domain.AuditEntry) error
	listFn   func(ctx context.Context, f domain.AuditFilter, p domain.Pagination) ([]domain.AuditEntry, int, error)
}

func (m *mockAuditRepo) Append(ctx context.Context, e *domain.AuditEntry) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, e)
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, f domain.AuditFilter, p domain.Pagination) ([]domain.AuditEntry, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f, p)
	}
	return nil, 0, nil
}

func (m *mockAuditRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type mockMetricsRepo struct {
	upsertFn         func(ctx context.Context, r *domain.DailyRollup) error
	getRangeFn       func(ctx context.Context, from, to string) ([]domain.DailyRollup, error)
	computeForDateFn func(ctx context.Context, dayStart, dayEnd time.Time, date string) (*domain.DailyRollup, error)
}

func (m *mockMetricsRepo) Upsert(ctx context.Context, r *domain.DailyRollup) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, r)
	}
	return nil
}

func (m *mockMetricsRepo) GetRange(ctx context.Context, from, to string) ([]domain.DailyRollup, error) {
	if m.getRangeFn != nil {
		return m.getRangeFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockMetricsRepo) ComputeForDate(ctx context.Context, dayStart, dayEnd time.Time, date string) (*domain.DailyRollup, error) {
	if m.computeForDateFn != nil {
		return m.computeForDateFn(ctx, dayStart, dayEnd, date)
	}
	return &domain.DailyRollup{Date: date}, nil
}

type mockSessionStore struct {
	createFn           func(ctx context.Context, s *domain.Session, ttl time.Duration) error
	getFn              func(ctx context.Context, id string) (*domain.Session, error)
	revokeFn           func(ctx context.Context, id string) error
	revokeAllForUserFn func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockSessionStore) Create(ctx context.Context, s *domain.Session, ttl time.Duration) error {
	if m.createFn != nil {
		return m.createFn(ctx, s, ttl)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockSessionStore) Revoke(ctx context.Context, id string) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id)
	}
	return nil
}

func (m *mockSessionStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	if m.revokeAllForUserFn != nil {
		return m.revokeAllForUserFn(ctx, userID)
	}
	return nil
}

// passthroughSlotCache computes directly without caching.
type passthroughSlotCache struct {
	invalidated []string
}

func (c *passthroughSlotCache) GetOrCompute(ctx context.Context, serviceID uuid.UUID, date string, compute func(context.Context) ([]schedule.Slot, error)) ([]schedule.Slot, error) {
	return compute(ctx)
}

func (c *passthroughSlotCache) Invalidate(ctx context.Context, serviceID uuid.UUID, date string) error {
	c.invalidated = append(c.invalidated, serviceID.String()+":"+date)
	return nil
}

// captureMailer records the last magic link instead of sending it.
type captureMailer struct {
	email string
	link  string
}

func (m *captureMailer) SendMagicLink(_ context.Context, email, link string) error {
	m.email = email
	m.link = link
	return nil
}
