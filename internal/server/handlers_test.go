package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CelestynPark/PenArt-Reservation/internal/app"
	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

var errNotImplemented = fmt.Errorf("not implemented")

// mockApp satisfies AppService with overridable function fields, mirroring
// the repository mocks in the app package.
type mockApp struct {
	listServicesFn      func(ctx context.Context) ([]domain.Service, error)
	getServiceByCodeFn  func(ctx context.Context, code string, actor *domain.User) (*domain.Service, error)
	availableSlotsFn    func(ctx context.Context, serviceID uuid.UUID, date string) ([]schedule.Slot, error)
	createBookingFn     func(ctx context.Context, in app.CreateBookingInput) (*domain.Booking, error)
	getBookingFn        func(ctx context.Context, bookingID uuid.UUID, actor *domain.User) (*domain.Booking, error)
	cancelBookingFn     func(ctx context.Context, bookingID uuid.UUID, actor *domain.User, reason string) (*domain.Booking, error)
	listGoodsFn         func(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error)
	createOrderFn       func(ctx context.Context, in app.CreateOrderInput) (*domain.Order, error)
	getOrderByCodeFn    func(ctx context.Context, code string) (*domain.Order, error)
	requestMagicLinkFn  func(ctx context.Context, email string) error
	verifyMagicLinkFn   func(ctx context.Context, token string) (*domain.Session, *domain.User, error)
	getSessionFn        func(ctx context.Context, sessionID string) (*domain.Session, *domain.User, error)
	logoutFn            func(ctx context.Context, sessionID string) error
	transitionBookingFn func(ctx context.Context, bookingID uuid.UUID, actor *domain.User, to domain.BookingStatus, reason string) (*domain.Booking, error)
	getStudioFn         func(ctx context.Context) (*domain.Studio, error)
}

func (m *mockApp) ListServices(ctx context.Context) ([]domain.Service, error) {
	if m.listServicesFn != nil {
		return m.listServicesFn(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockApp) GetServiceByCode(ctx context.Context, code string, actor *domain.User) (*domain.Service, error) {
	if m.getServiceByCodeFn != nil {
		return m.getServiceByCodeFn(ctx, code, actor)
	}
	return nil, errNotImplemented
}

func (m *mockApp) ListGoods(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
	if m.listGoodsFn != nil {
		return m.listGoodsFn(ctx, p)
	}
	return nil, 0, errNotImplemented
}

func (m *mockApp) GetGoodsBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.Goods, error) {
	return nil, errNotImplemented
}

func (m *mockApp) ListWorks(ctx context.Context, tag string, p domain.Pagination) ([]domain.Work, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) GetWorkBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.Work, error) {
	return nil, errNotImplemented
}

func (m *mockApp) ListNews(ctx context.Context, p domain.Pagination) ([]domain.News, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) GetNewsBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.News, error) {
	return nil, errNotImplemented
}

func (m *mockApp) GetStudio(ctx context.Context) (*domain.Studio, error) {
	if m.getStudioFn != nil {
		return m.getStudioFn(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockApp) ListApprovedReviews(ctx context.Context, serviceID *uuid.UUID, p domain.Pagination) ([]domain.Review, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) ([]schedule.Slot, error) {
	if m.availableSlotsFn != nil {
		return m.availableSlotsFn(ctx, serviceID, date)
	}
	return nil, errNotImplemented
}

func (m *mockApp) CreateBooking(ctx context.Context, in app.CreateBookingInput) (*domain.Booking, error) {
	if m.createBookingFn != nil {
		return m.createBookingFn(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockApp) GetBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User) (*domain.Booking, error) {
	if m.getBookingFn != nil {
		return m.getBookingFn(ctx, bookingID, actor)
	}
	return nil, errNotImplemented
}

func (m *mockApp) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, reason string) (*domain.Booking, error) {
	if m.cancelBookingFn != nil {
		return m.cancelBookingFn(ctx, bookingID, actor, reason)
	}
	return nil, errNotImplemented
}

func (m *mockApp) RescheduleBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, newStartAt time.Time) (*domain.Booking, error) {
	return nil, errNotImplemented
}

func (m *mockApp) TransitionBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	if m.transitionBookingFn != nil {
		return m.transitionBookingFn(ctx, bookingID, actor, to, reason)
	}
	return nil, errNotImplemented
}

func (m *mockApp) CreateOrder(ctx context.Context, in app.CreateOrderInput) (*domain.Order, error) {
	if m.createOrderFn != nil {
		return m.createOrderFn(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockApp) GetOrder(ctx context.Context, orderID uuid.UUID, actor *domain.User) (*domain.Order, error) {
	return nil, errNotImplemented
}

func (m *mockApp) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	if m.getOrderByCodeFn != nil {
		return m.getOrderByCodeFn(ctx, code)
	}
	return nil, errNotImplemented
}

func (m *mockApp) SubmitDeposit(ctx context.Context, orderID uuid.UUID, actor *domain.User, depositorName string) (*domain.Order, error) {
	return nil, errNotImplemented
}

func (m *mockApp) AttachOrderReceipt(ctx context.Context, orderID uuid.UUID, actor *domain.User, image string) (*domain.Order, error) {
	return nil, errNotImplemented
}

func (m *mockApp) MarkOrderPaid(ctx context.Context, orderID uuid.UUID, actor *domain.User) (*domain.Order, error) {
	return nil, errNotImplemented
}

func (m *mockApp) CancelOrder(ctx context.Context, orderID uuid.UUID, actor *domain.User, reason string) (*domain.Order, error) {
	return nil, errNotImplemented
}

func (m *mockApp) RequestMagicLink(ctx context.Context, email string) error {
	if m.requestMagicLinkFn != nil {
		return m.requestMagicLinkFn(ctx, email)
	}
	return errNotImplemented
}

func (m *mockApp) VerifyMagicLink(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	if m.verifyMagicLinkFn != nil {
		return m.verifyMagicLinkFn(ctx, token)
	}
	return nil, nil, errNotImplemented
}

func (m *mockApp) GetSession(ctx context.Context, sessionID string) (*domain.Session, *domain.User, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(ctx, sessionID)
	}
	return nil, nil, domain.ErrSessionNotFound
}

func (m *mockApp) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockApp) LogoutAll(ctx context.Context, userID uuid.UUID) error { return nil }

func (m *mockApp) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return nil, errNotImplemented
}

func (m *mockApp) UpdateProfile(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	return nil, errNotImplemented
}

func (m *mockApp) ListMyBookings(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Booking, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) ListMyOrders(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Order, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) ListMyReviews(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Review, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) CreateReview(ctx context.Context, customerID uuid.UUID, in app.CreateReviewInput) (*domain.Review, error) {
	return nil, errNotImplemented
}

func (m *mockApp) ListBookings(ctx context.Context, f domain.BookingFilter, p domain.Pagination) ([]domain.Booking, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) UpdateBookingMemo(ctx context.Context, actor *domain.User, bookingID uuid.UUID, memo string) error {
	return errNotImplemented
}

func (m *mockApp) ListOrders(ctx context.Context, f domain.OrderFilter, p domain.Pagination) ([]domain.Order, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) UpdateOrderMemo(ctx context.Context, actor *domain.User, orderID uuid.UUID, memo string) error {
	return errNotImplemented
}

func (m *mockApp) ListAllServices(ctx context.Context, p domain.Pagination) ([]domain.Service, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) SaveService(ctx context.Context, actor *domain.User, svc *domain.Service) (*domain.Service, error) {
	return nil, errNotImplemented
}

func (m *mockApp) DeleteService(ctx context.Context, actor *domain.User, serviceID uuid.UUID) error {
	return errNotImplemented
}

func (m *mockApp) ListAllGoods(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) SaveGoods(ctx context.Context, actor *domain.User, g *domain.Goods) (*domain.Goods, error) {
	return nil, errNotImplemented
}

func (m *mockApp) AdjustGoodsStock(ctx context.Context, actor *domain.User, goodsID uuid.UUID, delta int) (*domain.Goods, error) {
	return nil, errNotImplemented
}

func (m *mockApp) DeleteGoods(ctx context.Context, actor *domain.User, goodsID uuid.UUID) error {
	return errNotImplemented
}

func (m *mockApp) ListAllWorks(ctx context.Context, p domain.Pagination) ([]domain.Work, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) SaveWork(ctx context.Context, actor *domain.User, w *domain.Work) (*domain.Work, error) {
	return nil, errNotImplemented
}

func (m *mockApp) DeleteWork(ctx context.Context, actor *domain.User, workID uuid.UUID) error {
	return errNotImplemented
}

func (m *mockApp) ListAllNews(ctx context.Context, p domain.Pagination) ([]domain.News, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) SaveNews(ctx context.Context, actor *domain.User, n *domain.News) (*domain.News, error) {
	return nil, errNotImplemented
}

func (m *mockApp) DeleteNews(ctx context.Context, actor *domain.User, newsID uuid.UUID) error {
	return errNotImplemented
}

func (m *mockApp) UpdateStudio(ctx context.Context, actor *domain.User, st *domain.Studio) (*domain.Studio, error) {
	return nil, errNotImplemented
}

func (m *mockApp) GetAvailability(ctx context.Context) (*domain.Availability, error) {
	return nil, errNotImplemented
}

func (m *mockApp) UpdateAvailability(ctx context.Context, actor *domain.User, in app.UpdateAvailabilityInput) (*domain.Availability, error) {
	return nil, errNotImplemented
}

func (m *mockApp) ModerateReview(ctx context.Context, actor *domain.User, reviewID uuid.UUID, to domain.ReviewStatus) (*domain.Review, error) {
	return nil, errNotImplemented
}

func (m *mockApp) ListReviewsForModeration(ctx context.Context, status domain.ReviewStatus, p domain.Pagination) ([]domain.Review, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	return nil, errNotImplemented
}

func (m *mockApp) ListAudit(ctx context.Context, f domain.AuditFilter, p domain.Pagination) ([]domain.AuditEntry, int, error) {
	return nil, 0, errNotImplemented
}

func (m *mockApp) DashboardRollups(ctx context.Context, from, to string) ([]domain.DailyRollup, error) {
	return nil, errNotImplemented
}
