package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CelestynPark/PenArt-Reservation/internal/app"
	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
)

// Admin endpoints return the raw domain shapes (full i18n maps, admin memos)
// since the back office edits both languages.

func (s *Server) handleAdminListBookings(c echo.Context) error {
	p := pagination(c)
	f := domain.BookingFilter{
		Status: domain.BookingStatus(c.QueryParam("status")),
		Query:  c.QueryParam("q"),
	}
	if raw := c.QueryParam("service_id"); raw != "" {
		id, err := parseUUIDField(raw, "service_id")
		if err != nil {
			return err
		}
		f.ServiceID = &id
	}
	if raw := c.QueryParam("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperrors.Validation("invalid from timestamp")
		}
		f.From = &ts
	}
	if raw := c.QueryParam("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperrors.Validation("invalid to timestamp")
		}
		f.To = &ts
	}

	bookings, total, err := s.app.ListBookings(c.Request().Context(), f, p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, bookings, p, total)
}

type transitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (s *Server) handleAdminTransitionBooking(c echo.Context) error {
	bookingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	b, err := s.app.TransitionBooking(c.Request().Context(), bookingID, currentUser(c), domain.BookingStatus(req.Status), req.Reason)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, b)
}

type memoRequest struct {
	Memo string `json:"memo"`
}

func (s *Server) handleAdminBookingMemo(c echo.Context) error {
	bookingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req memoRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := s.app.UpdateBookingMemo(c.Request().Context(), currentUser(c), bookingID, req.Memo); err != nil {
		return mapErr(err)
	}
	return ok(c, 200, map[string]string{"message": "memo updated"})
}

func (s *Server) handleAdminListOrders(c echo.Context) error {
	p := pagination(c)
	f := domain.OrderFilter{
		Status: domain.OrderStatus(c.QueryParam("status")),
		Query:  c.QueryParam("q"),
	}
	orders, total, err := s.app.ListOrders(c.Request().Context(), f, p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, orders, p, total)
}

func (s *Server) handleAdminMarkOrderPaid(c echo.Context) error {
	orderID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	o, err := s.app.MarkOrderPaid(c.Request().Context(), orderID, currentUser(c))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, o)
}

func (s *Server) handleAdminCancelOrder(c echo.Context) error {
	orderID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req cancelRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	o, err := s.app.CancelOrder(c.Request().Context(), orderID, currentUser(c), req.Reason)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, o)
}

func (s *Server) handleAdminOrderMemo(c echo.Context) error {
	orderID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req memoRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := s.app.UpdateOrderMemo(c.Request().Context(), currentUser(c), orderID, req.Memo); err != nil {
		return mapErr(err)
	}
	return ok(c, 200, map[string]string{"message": "memo updated"})
}

func (s *Server) handleAdminListServices(c echo.Context) error {
	p := pagination(c)
	services, total, err := s.app.ListAllServices(c.Request().Context(), p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, services, p, total)
}

func (s *Server) handleAdminSaveService(c echo.Context) error {
	var svc domain.Service
	if err := bindJSON(c, &svc); err != nil {
		return err
	}
	if id := c.Param("id"); id != "" {
		parsed, err := paramUUID(c, "id")
		if err != nil {
			return err
		}
		svc.ID = parsed
	}
	saved, err := s.app.SaveService(c.Request().Context(), currentUser(c), &svc)
	if err != nil {
		return mapErr(err)
	}
	status := 200
	if c.Param("id") == "" {
		status = 201
	}
	return ok(c, status, saved)
}

func (s *Server) handleAdminDeleteService(c echo.Context) error {
	serviceID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := s.app.DeleteService(c.Request().Context(), currentUser(c), serviceID); err != nil {
		return mapErr(err)
	}
	return ok(c, 200, map[string]string{"message": "service deleted"})
}

func (s *Server) handleAdminListGoods(c echo.Context) error {
	p := pagination(c)
	goods, total, err := s.app.ListAllGoods(c.Request().Context(), p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, goods, p, total)
}

func (s *Server) handleAdminSaveGoods(c echo.Context) error {
	var g domain.Goods
	if err := bindJSON(c, &g); err != nil {
		return err
	}
	if id := c.Param("id"); id != "" {
		parsed, err := paramUUID(c, "id")
		if err != nil {
			return err
		}
		g.ID = parsed
	}
	saved, err := s.app.SaveGoods(c.Request().Context(), currentUser(c), &g)
	if err != nil {
		return mapErr(err)
	}
	status := 200
	if c.Param("id") == "" {
		status = 201
	}
	return ok(c, status, saved)
}

type stockAdjustRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) handleAdminAdjustStock(c echo.Context) error {
	goodsID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req stockAdjustRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	g, err := s.app.AdjustGoodsStock(c.Request().Context(), currentUser(c), goodsID, req.Delta)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, g)
}

func (s *Server) handleAdminDeleteGoods(c echo.Context) error {
	goodsID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := s.app.DeleteGoods(c.Request().Context(), currentUser(c), goodsID); err != nil {
		return mapErr(err)
	}
	return ok(c, 200, map[string]string{"message": "goods deleted"})
}

func (s *Server) handleAdminListWorks(c echo.Context) error {
	p := pagination(c)
	works, total, err := s.app.ListAllWorks(c.Request().Context(), p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, works, p, total)
}

func (s *Server) handleAdminSaveWork(c echo.Context) error {
	var w domain.Work
	if err := bindJSON(c, &w); err != nil {
		return err
	}
	if id := c.Param("id"); id != "" {
		parsed, err := paramUUID(c, "id")
		if err != nil {
			return err
		}
		w.ID = parsed
	}
	saved, err := s.app.SaveWork(c.Request().Context(), currentUser(c), &w)
	if err != nil {
		return mapErr(err)
	}
	status := 200
	if c.Param("id") == "" {
		status = 201
	}
	return ok(c, status, saved)
}

func (s *Server) handleAdminDeleteWork(c echo.Context) error {
	workID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := s.app.DeleteWork(c.Request().Context(), currentUser(c), workID); err != nil {
		return mapErr(err)
	}
	return ok(c, 200, map[string]string{"message": "work deleted"})
}

func (s *Server) handleAdminListNews(c echo.Context) error {
	p := pagination(c)
	news, total, err := s.app.ListAllNews(c.Request().Context(), p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, news, p, total)
}

func (s *Server) handleAdminSaveNews(c echo.Context) error {
	var n domain.News
	if err := bindJSON(c, &n); err != nil {
		return err
	}
	if id := c.Param("id"); id != "" {
		parsed, err := paramUUID(c, "id")
		if err != nil {
			return err
		}
		n.ID = parsed
	}
	saved, err := s.app.SaveNews(c.Request().Context(), currentUser(c), &n)
	if err != nil {
		return mapErr(err)
	}
	status := 200
	if c.Param("id") == "" {
		status = 201
	}
	return ok(c, status, saved)
}

func (s *Server) handleAdminDeleteNews(c echo.Context) error {
	newsID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := s.app.DeleteNews(c.Request().Context(), currentUser(c), newsID); err != nil {
		return mapErr(err)
	}
	return ok(c, 200, map[string]string{"message": "news deleted"})
}

func (s *Server) handleAdminUpdateStudio(c echo.Context) error {
	var st domain.Studio
	if err := bindJSON(c, &st); err != nil {
		return err
	}
	saved, err := s.app.UpdateStudio(c.Request().Context(), currentUser(c), &st)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, saved)
}

func (s *Server) handleAdminGetAvailability(c echo.Context) error {
	a, err := s.app.GetAvailability(c.Request().Context())
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, a)
}

type availabilityRequest struct {
	BaseDays   []int              `json:"base_days"`
	Rules      []domain.Rule      `json:"rules"`
	Exceptions []domain.Exception `json:"exceptions"`
}

func (s *Server) handleAdminUpdateAvailability(c echo.Context) error {
	var req availabilityRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	a, err := s.app.UpdateAvailability(c.Request().Context(), currentUser(c), app.UpdateAvailabilityInput{
		BaseDays:   req.BaseDays,
		Rules:      req.Rules,
		Exceptions: req.Exceptions,
	})
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, a)
}

func (s *Server) handleAdminListReviews(c echo.Context) error {
	p := pagination(c)
	status := domain.ReviewStatus(c.QueryParam("status"))
	if status == "" {
		status = domain.ReviewPending
	}
	reviews, total, err := s.app.ListReviewsForModeration(c.Request().Context(), status, p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, reviews, p, total)
}

type moderateRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleAdminModerateReview(c echo.Context) error {
	reviewID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req moderateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	r, err := s.app.ModerateReview(c.Request().Context(), currentUser(c), reviewID, domain.ReviewStatus(req.Status))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, r)
}

func (s *Server) handleAdminSearchUsers(c echo.Context) error {
	limit := 20
	if p := pagination(c); p.Size != domain.DefaultPageSize {
		limit = p.Size
	}
	users, err := s.app.SearchUsers(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toUserViews(users))
}

func (s *Server) handleAdminListAudit(c echo.Context) error {
	p := pagination(c)
	f := domain.AuditFilter{
		Action:     c.QueryParam("action"),
		TargetType: c.QueryParam("target_type"),
	}
	if raw := c.QueryParam("actor_id"); raw != "" {
		id, err := parseUUIDField(raw, "actor_id")
		if err != nil {
			return err
		}
		f.ActorID = &id
	}
	entries, total, err := s.app.ListAudit(c.Request().Context(), f, p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, entries, p, total)
}

func (s *Server) handleAdminDashboard(c echo.Context) error {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		return apperrors.Validation("from and to dates are required")
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return apperrors.Validation("dates must be YYYY-MM-DD")
		}
	}
	rollups, err := s.app.DashboardRollups(c.Request().Context(), from, to)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, rollups)
}
