package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CelestynPark/PenArt-Reservation/internal/app"
	"github.com/CelestynPark/PenArt-Reservation/internal/config"
	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

func newTestServer(t *testing.T, svc AppService) *Server {
	t.Helper()
	cfg := &config.Config{
		AppEnv:        "test",
		DefaultLang:   domain.LangKo,
		SessionMaxAge: time.Hour,
	}
	return NewServer(cfg, svc, nil, nil, nil, nil)
}

func doRequest(t *testing.T, srv *Server, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

// withSession wires a session cookie and a GetSession mock for the given user.
func withSession(m *mockApp, user *domain.User) string {
	sessionID := "sess-" + user.ID.String()
	m.getSessionFn = func(_ context.Context, id string) (*domain.Session, *domain.User, error) {
		if id != sessionID {
			return nil, nil, domain.ErrSessionNotFound
		}
		return &domain.Session{ID: id, UserID: user.ID, Role: user.Role}, user, nil
	}
	return sessionID
}

func customer() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "jiwoo@example.com", Name: "최지우", Role: domain.RoleCustomer, LangPref: domain.LangKo}
}

func TestListServices_ResolvesLanguage(t *testing.T) {
	m := &mockApp{
		listServicesFn: func(_ context.Context) ([]domain.Service, error) {
			return []domain.Service{{
				ID:          uuid.New(),
				Code:        "calligraphy-basic",
				NameI18n:    domain.I18n{domain.LangKo: "캘리그라피 기초", domain.LangEn: "Calligraphy Basics"},
				DurationMin: 90,
			}}, nil
		},
	}
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodGet, "/api/services?lang=en", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, true, body["ok"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Calligraphy Basics", data[0].(map[string]any)["name"])
}

func TestGetService_NotFound(t *testing.T) {
	m := &mockApp{
		getServiceByCodeFn: func(_ context.Context, _ string, _ *domain.User) (*domain.Service, error) {
			return nil, domain.ErrServiceNotFound
		},
	}
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodGet, "/api/services/nope", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "ERR_NOT_FOUND", errorCode(body))
}

func TestCreateBooking_RequiresAuth(t *testing.T) {
	srv := newTestServer(t, &mockApp{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 401, rec.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", errorCode(body))
}

func TestCreateBooking_Success(t *testing.T) {
	user := customer()
	serviceID := uuid.New()
	start := time.Date(2026, 3, 4, 1, 0, 0, 0, time.UTC)

	m := &mockApp{
		createBookingFn: func(_ context.Context, in app.CreateBookingInput) (*domain.Booking, error) {
			assert.Equal(t, user.ID, in.CustomerID)
			assert.Equal(t, serviceID, in.ServiceID)
			assert.Equal(t, domain.SourceWeb, in.Source)
			return &domain.Booking{
				ID:        uuid.New(),
				Code:      "BKG-20260304-A1B2C3",
				ServiceID: serviceID,
				StartAt:   in.StartAt,
				EndAt:     in.StartAt.Add(90 * time.Minute),
				Status:    domain.BookingRequested,
			}, nil
		},
	}
	sessionID := withSession(m, user)
	srv := newTestServer(t, m)

	payload := fmt.Sprintf(`{"service_id":%q,"start_at":%q,"customer_name":"최지우","customer_phone":"010-1234-5678","agree_policy":true}`,
		serviceID, start.Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "BKG-20260304-A1B2C3", body["data"].(map[string]any)["code"])
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	user := customer()
	m := &mockApp{
		createBookingFn: func(_ context.Context, _ app.CreateBookingInput) (*domain.Booking, error) {
			return nil, domain.ErrSlotTaken
		},
	}
	sessionID := withSession(m, user)
	srv := newTestServer(t, m)

	payload := fmt.Sprintf(`{"service_id":%q,"start_at":"2026-03-04T01:00:00Z","agree_policy":true}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 409, rec.Code)
	assert.Equal(t, "ERR_SLOT_BLOCKED", errorCode(body))
}

func TestCreateBooking_BadServiceID(t *testing.T) {
	user := customer()
	m := &mockApp{}
	sessionID := withSession(m, user)
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{"service_id":"nope","start_at":"2026-03-04T01:00:00Z"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, "ERR_INVALID_PAYLOAD", errorCode(body))
}

func TestStaleSessionCookie_ContinuesAnonymously(t *testing.T) {
	m := &mockApp{
		listServicesFn: func(_ context.Context) ([]domain.Service, error) { return nil, nil },
	}
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "expired"})
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, true, body["ok"])
	// The stale cookie gets cleared.
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestVerifyMagicLink_SetsSessionCookie(t *testing.T) {
	user := customer()
	m := &mockApp{
		verifyMagicLinkFn: func(_ context.Context, token string) (*domain.Session, *domain.User, error) {
			assert.Equal(t, "tok123", token)
			return &domain.Session{ID: "new-session", UserID: user.ID, Role: user.Role}, user, nil
		},
	}
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify?token=tok123", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, true, body["ok"])

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "new-session", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestVerifyMagicLink_MissingToken(t *testing.T) {
	srv := newTestServer(t, &mockApp{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, "ERR_INVALID_PAYLOAD", errorCode(body))
}

func TestRequestMagicLink_BurstLimited(t *testing.T) {
	m := &mockApp{
		requestMagicLinkFn: func(_ context.Context, _ string) error { return nil },
	}
	srv := newTestServer(t, m)
	srv.loginBurst = newBurstLimiter(0.001, 2)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/magic-link", strings.NewReader(`{"email":"jiwoo@example.com"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec, _ := doRequest(t, srv, req)
		assert.Equal(t, 200, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/magic-link", strings.NewReader(`{"email":"jiwoo@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, body := doRequest(t, srv, req)
	assert.Equal(t, 429, rec.Code)
	assert.Equal(t, "ERR_RATE_LIMIT", errorCode(body))
}

func TestAdminRoutes_ForbiddenForCustomers(t *testing.T) {
	user := customer()
	m := &mockApp{}
	sessionID := withSession(m, user)
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 403, rec.Code)
	assert.Equal(t, "ERR_FORBIDDEN", errorCode(body))
}

func TestAdminRoutes_UnauthorizedWhenAnonymous(t *testing.T) {
	srv := newTestServer(t, &mockApp{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 401, rec.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", errorCode(body))
}

func TestRateLimit_Exceeded(t *testing.T) {
	m := &mockApp{
		listServicesFn: func(_ context.Context) ([]domain.Service, error) { return nil, nil },
	}
	srv := newTestServer(t, m)
	srv.limiter = &fakeRateLimiter{allowed: false}

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 429, rec.Code)
	assert.Equal(t, "ERR_RATE_LIMIT", errorCode(body))
}

func TestRateLimit_FailsOpenOnError(t *testing.T) {
	m := &mockApp{
		listServicesFn: func(_ context.Context) ([]domain.Service, error) { return nil, nil },
	}
	srv := newTestServer(t, m)
	srv.limiter = &fakeRateLimiter{err: fmt.Errorf("redis down")}

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	rec, _ := doRequest(t, srv, req)

	assert.Equal(t, 200, rec.Code)
}

func TestLookupOrder_GuestByCode(t *testing.T) {
	m := &mockApp{
		getOrderByCodeFn: func(_ context.Context, code string) (*domain.Order, error) {
			assert.Equal(t, "ORD-20260304-XYZ123", code)
			return &domain.Order{
				ID:     uuid.New(),
				Code:   code,
				Status: domain.OrderAwaitingDeposit,
				Total:  domain.Money{Amount: 35000, Currency: "KRW"},
				Buyer:  domain.Buyer{Name: "최지우", Phone: "010-9876-5432", Email: "jiwoo@example.com"},
			}, nil
		},
	}
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/lookup/ORD-20260304-XYZ123?phone=010-9876-5432", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "awaiting_deposit", body["data"].(map[string]any)["status"])
}

func TestLookupOrder_WrongPhoneHidesOrder(t *testing.T) {
	m := &mockApp{
		getOrderByCodeFn: func(_ context.Context, code string) (*domain.Order, error) {
			return &domain.Order{
				ID:     uuid.New(),
				Code:   code,
				Status: domain.OrderAwaitingDeposit,
				Buyer:  domain.Buyer{Name: "최지우", Phone: "010-9876-5432", Email: "jiwoo@example.com"},
			}, nil
		},
	}
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/lookup/ORD-20260304-XYZ123?phone=010-0000-0000", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "ERR_NOT_FOUND", errorCode(body))
}

func TestListGoods_PaginationMeta(t *testing.T) {
	m := &mockApp{
		listGoodsFn: func(_ context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
			assert.Equal(t, 2, p.Page)
			assert.Equal(t, 5, p.Size)
			return []domain.Goods{{ID: uuid.New(), Slug: "ink-set", NameI18n: domain.I18n{domain.LangKo: "잉크 세트"}}}, 11, nil
		},
	}
	srv := newTestServer(t, m)

	req := httptest.NewRequest(http.MethodGet, "/api/goods?page=2&size=5", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 200, rec.Code)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(5), meta["size"])
	assert.Equal(t, float64(11), meta["total"])
}

func TestCreateOrder_IdempotentReplay(t *testing.T) {
	called := 0
	m := &mockApp{
		createOrderFn: func(_ context.Context, _ app.CreateOrderInput) (*domain.Order, error) {
			called++
			return nil, fmt.Errorf("should not run on replay")
		},
	}
	srv := newTestServer(t, m)
	srv.idempotency = &fakeIdempotencyStore{
		stored: []byte(`{"ok":true,"data":{"code":"ORD-20260304-STORED"}}`),
		owned:  false,
	}

	payload := fmt.Sprintf(`{"goods_id":%q,"quantity":1,"buyer":{"name":"최지우","phone":"010-1234-5678","email":"jiwoo@example.com"}}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "retry-1")
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, 0, called)
	assert.Equal(t, "ORD-20260304-STORED", body["data"].(map[string]any)["code"])
}

func TestCreateOrder_IdempotencyStoresResult(t *testing.T) {
	m := &mockApp{
		createOrderFn: func(_ context.Context, in app.CreateOrderInput) (*domain.Order, error) {
			return &domain.Order{
				ID:     uuid.New(),
				Code:   "ORD-20260304-FRESH1",
				Status: domain.OrderCreated,
				Total:  domain.Money{Amount: 35000, Currency: domain.CurrencyKRW},
				Buyer:  in.Buyer,
			}, nil
		},
	}
	srv := newTestServer(t, m)
	store := &fakeIdempotencyStore{owned: true}
	srv.idempotency = store

	payload := fmt.Sprintf(`{"goods_id":%q,"quantity":1,"buyer":{"name":"최지우","phone":"010-1234-5678","email":"jiwoo@example.com"}}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "retry-2")
	rec, _ := doRequest(t, srv, req)

	assert.Equal(t, 201, rec.Code)
	require.NotNil(t, store.lastResult)
	assert.Contains(t, string(store.lastResult), "ORD-20260304-FRESH1")
}

func TestCreateOrder_IdempotencyReleasedOnFailure(t *testing.T) {
	m := &mockApp{
		createOrderFn: func(_ context.Context, _ app.CreateOrderInput) (*domain.Order, error) {
			return nil, domain.ErrInsufficientStock
		},
	}
	srv := newTestServer(t, m)
	store := &fakeIdempotencyStore{owned: true}
	srv.idempotency = store

	payload := fmt.Sprintf(`{"goods_id":%q,"quantity":3,"buyer":{"name":"최지우","phone":"010-1234-5678","email":"jiwoo@example.com"}}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "retry-3")
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, 409, rec.Code)
	assert.Equal(t, "ERR_CONFLICT", errorCode(body))
	assert.True(t, store.released)
}

type fakeIdempotencyStore struct {
	stored     []byte
	owned      bool
	lastResult []byte
	released   bool
}

func (f *fakeIdempotencyStore) Reserve(_ context.Context, _, _ string) ([]byte, bool, error) {
	if f.owned {
		return nil, true, nil
	}
	return f.stored, false, nil
}

func (f *fakeIdempotencyStore) StoreResult(_ context.Context, _, _ string, result []byte) error {
	f.lastResult = result
	return nil
}

func (f *fakeIdempotencyStore) Release(_ context.Context, _, _ string) error {
	f.released = true
	return nil
}

type fakeRateLimiter struct {
	allowed bool
	err     error
}

func (f *fakeRateLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return f.allowed, f.err
}
