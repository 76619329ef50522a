package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/CelestynPark/PenArt-Reservation/internal/app"
	"github.com/CelestynPark/PenArt-Reservation/internal/config"
	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

const sessionCookieName = "penart_session"

// AppService is the application surface the HTTP layer drives. *app.Service
// satisfies it; handler tests substitute a mock.
type AppService interface {
	// Catalog and content
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetServiceByCode(ctx context.Context, code string, actor *domain.User) (*domain.Service, error)
	ListGoods(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error)
	GetGoodsBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.Goods, error)
	ListWorks(ctx context.Context, tag string, p domain.Pagination) ([]domain.Work, int, error)
	GetWorkBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.Work, error)
	ListNews(ctx context.Context, p domain.Pagination) ([]domain.News, int, error)
	GetNewsBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.News, error)
	GetStudio(ctx context.Context) (*domain.Studio, error)
	ListApprovedReviews(ctx context.Context, serviceID *uuid.UUID, p domain.Pagination) ([]domain.Review, int, error)

	// Scheduling and bookings
	AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) ([]schedule.Slot, error)
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, reason string) (*domain.Booking, error)
	RescheduleBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, newStartAt time.Time) (*domain.Booking, error)
	TransitionBooking(ctx context.Context, bookingID uuid.UUID, actor *domain.User, to domain.BookingStatus, reason string) (*domain.Booking, error)

	// Orders
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID, actor *domain.User) (*domain.Order, error)
	GetOrderByCode(ctx context.Context, code string) (*domain.Order, error)
	SubmitDeposit(ctx context.Context, orderID uuid.UUID, actor *domain.User, depositorName string) (*domain.Order, error)
	AttachOrderReceipt(ctx context.Context, orderID uuid.UUID, actor *domain.User, image string) (*domain.Order, error)
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID, actor *domain.User) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, actor *domain.User, reason string) (*domain.Order, error)

	// Auth and profile
	RequestMagicLink(ctx context.Context, email string) error
	VerifyMagicLink(ctx context.Context, token string) (*domain.Session, *domain.User, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, sessionID string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error)
	ListMyBookings(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Booking, int, error)
	ListMyOrders(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Order, int, error)
	ListMyReviews(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Review, int, error)
	CreateReview(ctx context.Context, customerID uuid.UUID, in app.CreateReviewInput) (*domain.Review, error)

	// Back office
	ListBookings(ctx context.Context, f domain.BookingFilter, p domain.Pagination) ([]domain.Booking, int, error)
	UpdateBookingMemo(ctx context.Context, actor *domain.User, bookingID uuid.UUID, memo string) error
	ListOrders(ctx context.Context, f domain.OrderFilter, p domain.Pagination) ([]domain.Order, int, error)
	UpdateOrderMemo(ctx context.Context, actor *domain.User, orderID uuid.UUID, memo string) error
	ListAllServices(ctx context.Context, p domain.Pagination) ([]domain.Service, int, error)
	SaveService(ctx context.Context, actor *domain.User, svc *domain.Service) (*domain.Service, error)
	DeleteService(ctx context.Context, actor *domain.User, serviceID uuid.UUID) error
	ListAllGoods(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error)
	SaveGoods(ctx context.Context, actor *domain.User, g *domain.Goods) (*domain.Goods, error)
	AdjustGoodsStock(ctx context.Context, actor *domain.User, goodsID uuid.UUID, delta int) (*domain.Goods, error)
	DeleteGoods(ctx context.Context, actor *domain.User, goodsID uuid.UUID) error
	ListAllWorks(ctx context.Context, p domain.Pagination) ([]domain.Work, int, error)
	SaveWork(ctx context.Context, actor *domain.User, w *domain.Work) (*domain.Work, error)
	DeleteWork(ctx context.Context, actor *domain.User, workID uuid.UUID) error
	ListAllNews(ctx context.Context, p domain.Pagination) ([]domain.News, int, error)
	SaveNews(ctx context.Context, actor *domain.User, n *domain.News) (*domain.News, error)
	DeleteNews(ctx context.Context, actor *domain.User, newsID uuid.UUID) error
	UpdateStudio(ctx context.Context, actor *domain.User, st *domain.Studio) (*domain.Studio, error)
	GetAvailability(ctx context.Context) (*domain.Availability, error)
	UpdateAvailability(ctx context.Context, actor *domain.User, in app.UpdateAvailabilityInput) (*domain.Availability, error)
	ModerateReview(ctx context.Context, actor *domain.User, reviewID uuid.UUID, to domain.ReviewStatus) (*domain.Review, error)
	ListReviewsForModeration(ctx context.Context, status domain.ReviewStatus, p domain.Pagination) ([]domain.Review, int, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error)
	ListAudit(ctx context.Context, f domain.AuditFilter, p domain.Pagination) ([]domain.AuditEntry, int, error)
	DashboardRollups(ctx context.Context, from, to string) ([]domain.DailyRollup, error)
}

// RateLimiter throttles per-subject request rates.
type RateLimiter interface {
	Allow(ctx context.Context, subject string) (bool, error)
}

// IdempotencyStore deduplicates retried mutations by client-provided key.
type IdempotencyStore interface {
	Reserve(ctx context.Context, resource, key string) ([]byte, bool, error)
	StoreResult(ctx context.Context, resource, key string, result []byte) error
	Release(ctx context.Context, resource, key string) error
}

// Pinger is a health-check dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	app         AppService
	limiter     RateLimiter
	idempotency IdempotencyStore
	db          Pinger
	redis       Pinger
	loginBurst  *burstLimiter
	startTime   time.Time
}

func NewServer(cfg *config.Config, svc AppService, limiter RateLimiter, idempotency IdempotencyStore, db, redis Pinger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		app:         svc,
		limiter:     limiter,
		idempotency: idempotency,
		db:          db,
		redis:       redis,
		// One login link per 12 seconds sustained, bursts of three.
		loginBurst: newBurstLimiter(1.0/12, 3),
		startTime:  time.Now(),
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setSessionCookie(c echo.Context, sess *domain.Session) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.config.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.config.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	})
}
