package app

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

// ListBookings is the admin booking overview with filtering and search.
func (s *Service) ListBookings(ctx context.Context, f domain.BookingFilter, p domain.Pagination) ([]domain.Booking, int, error) {
	return s.bookings.List(ctx, f, p)
}

// UpdateBookingMemo sets the admin-only memo on a booking.
func (s *Service) UpdateBookingMemo(ctx context.Context, actor *domain.User, bookingID uuid.UUID, memo string) error {
	if err := s.bookings.UpdateAdminMemo(ctx, bookingID, memo); err != nil {
		return err
	}
	return s.recordAudit(ctx, &actor.ID, "booking.memo", "booking", bookingID.String(), nil)
}

// ListOrders is the admin order overview with filtering and search.
func (s *Service) ListOrders(ctx context.Context, f domain.OrderFilter, p domain.Pagination) ([]domain.Order, int, error) {
	return s.orders.List(ctx, f, p)
}

// UpdateOrderMemo sets the admin-only memo on an order.
func (s *Service) UpdateOrderMemo(ctx context.Context, actor *domain.User, orderID uuid.UUID, memo string) error {
	if err := s.orders.UpdateAdminMemo(ctx, orderID, memo); err != nil {
		return err
	}
	return s.recordAudit(ctx, &actor.ID, "order.memo", "order", orderID.String(), nil)
}

// ListAllServices returns every class offering including inactive ones.
func (s *Service) ListAllServices(ctx context.Context, p domain.Pagination) ([]domain.Service, int, error) {
	return s.services.List(ctx, p)
}

// SaveService creates or updates a class offering. Policy edits only affect
// future bookings; existing bookings keep their snapshot.
func (s *Service) SaveService(ctx context.Context, actor *domain.User, svc *domain.Service) (*domain.Service, error) {
	if err := validateService(svc); err != nil {
		return nil, err
	}

	var (
		saved  *domain.Service
		action string
		err    error
	)
	if svc.ID == uuid.Nil {
		saved, err = s.services.Create(ctx, svc)
		action = "service.create"
	} else {
		saved, err = s.services.Update(ctx, svc)
		action = "service.update"
	}
	if err != nil {
		return nil, err
	}
	if err := s.recordAudit(ctx, &actor.ID, action, "service", saved.ID.String(), map[string]any{"code": saved.Code}); err != nil {
		return nil, err
	}
	return saved, nil
}

func validateService(svc *domain.Service) error {
	if svc.Code == "" {
		return apperrors.Validation("service code is required")
	}
	if svc.NameI18n[domain.LangKo] == "" {
		return apperrors.Validation("korean name is required")
	}
	if svc.DurationMin <= 0 {
		return apperrors.Validation("duration must be positive")
	}
	if svc.Policy.CancelBeforeHours < 0 || svc.Policy.ChangeBeforeHours < 0 || svc.Policy.NoShowAfterMin < 0 {
		return apperrors.Validation("policy hours cannot be negative")
	}
	return nil
}

// DeleteService removes an offering. Past bookings keep their snapshot, so
// deletion is safe for history.
func (s *Service) DeleteService(ctx context.Context, actor *domain.User, serviceID uuid.UUID) error {
	if err := s.services.Delete(ctx, serviceID); err != nil {
		return err
	}
	return s.recordAudit(ctx, &actor.ID, "service.delete", "service", serviceID.String(), nil)
}

// ListAllGoods returns every item including hidden ones.
func (s *Service) ListAllGoods(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
	return s.goods.List(ctx, p)
}

// SaveGoods creates or updates a storefront item.
func (s *Service) SaveGoods(ctx context.Context, actor *domain.User, g *domain.Goods) (*domain.Goods, error) {
	if g.Slug == "" {
		return nil, apperrors.Validation("slug is required")
	}
	if g.NameI18n[domain.LangKo] == "" {
		return nil, apperrors.Validation("korean name is required")
	}
	if g.Price.Amount < 0 {
		return nil, apperrors.Validation("price cannot be negative")
	}
	if g.Stock < 0 {
		return nil, apperrors.Validation("stock cannot be negative")
	}
	if !g.Status.Valid() {
		return nil, apperrors.Validation("unknown goods status")
	}

	var (
		saved  *domain.Goods
		action string
		err    error
	)
	if g.ID == uuid.Nil {
		saved, err = s.goods.Create(ctx, g)
		action = "goods.create"
	} else {
		saved, err = s.goods.Update(ctx, g)
		action = "goods.update"
	}
	if err != nil {
		if err == domain.ErrDuplicateSlug {
			return nil, apperrors.Conflict("slug already in use")
		}
		return nil, err
	}
	if err := s.recordAudit(ctx, &actor.ID, action, "goods", saved.ID.String(), map[string]any{"slug": saved.Slug}); err != nil {
		return nil, err
	}
	return saved, nil
}

// AdjustGoodsStock applies a signed manual stock correction.
func (s *Service) AdjustGoodsStock(ctx context.Context, actor *domain.User, goodsID uuid.UUID, delta int) (*domain.Goods, error) {
	if delta == 0 {
		return nil, apperrors.Validation("delta cannot be zero")
	}
	g, err := s.goods.AdjustStock(ctx, goodsID, delta)
	if err != nil {
		if err == domain.ErrInsufficientStock {
			return nil, apperrors.Conflict("stock cannot go negative")
		}
		return nil, err
	}
	if err := s.recordAudit(ctx, &actor.ID, "goods.stock", "goods", goodsID.String(), map[string]any{"delta": delta, "stock": g.Stock}); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGoods removes an item from the storefront.
func (s *Service) DeleteGoods(ctx context.Context, actor *domain.User, goodsID uuid.UUID) error {
	if err := s.goods.Delete(ctx, goodsID); err != nil {
		return err
	}
	return s.recordAudit(ctx, &actor.ID, "goods.delete", "goods", goodsID.String(), nil)
}

// ListAllWorks returns the gallery including unpublished pieces.
func (s *Service) ListAllWorks(ctx context.Context, p domain.Pagination) ([]domain.Work, int, error) {
	return s.works.List(ctx, p)
}

// SaveWork creates or updates a gallery piece.
func (s *Service) SaveWork(ctx context.Context, actor *domain.User, w *domain.Work) (*domain.Work, error) {
	if w.Slug == "" {
		return nil, apperrors.Validation("slug is required")
	}
	if w.TitleI18n[domain.LangKo] == "" {
		return nil, apperrors.Validation("korean title is required")
	}

	var (
		saved  *domain.Work
		action string
		err    error
	)
	if w.ID == uuid.Nil {
		saved, err = s.works.Create(ctx, w)
		action = "work.create"
	} else {
		saved, err = s.works.Update(ctx, w)
		action = "work.update"
	}
	if err != nil {
		if err == domain.ErrDuplicateSlug {
			return nil, apperrors.Conflict("slug already in use")
		}
		return nil, err
	}
	if err := s.recordAudit(ctx, &actor.ID, action, "work", saved.ID.String(), map[string]any{"slug": saved.Slug}); err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteWork removes a gallery piece.
func (s *Service) DeleteWork(ctx context.Context, actor *domain.User, workID uuid.UUID) error {
	if err := s.works.Delete(ctx, workID); err != nil {
		return err
	}
	return s.recordAudit(ctx, &actor.ID, "work.delete", "work", workID.String(), nil)
}

// ListAllNews returns announcements including drafts.
func (s *Service) ListAllNews(ctx context.Context, p domain.Pagination) ([]domain.News, int, error) {
	return s.news.List(ctx, p)
}

// SaveNews creates or updates an announcement. Publishing for the first time
// stamps PublishedAt.
func (s *Service) SaveNews(ctx context.Context, actor *domain.User, n *domain.News) (*domain.News, error) {
	if n.TitleI18n[domain.LangKo] == "" {
		return nil, apperrors.Validation("korean title is required")
	}
	autoSlug := n.Slug == ""
	if autoSlug {
		n.Slug = slugify(n.TitleI18n[domain.LangKo])
	}
	if n.IsPublished && n.PublishedAt == nil {
		now := s.clock.Now().UTC()
		n.PublishedAt = &now
	}

	var (
		saved  *domain.News
		action string
		err    error
	)
	base := n.Slug
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			n.Slug = fmt.Sprintf("%s-%d", base, attempt+1)
		}
		if n.ID == uuid.Nil {
			saved, err = s.news.Create(ctx, n)
			action = "news.create"
		} else {
			saved, err = s.news.Update(ctx, n)
			action = "news.update"
		}
		if err == domain.ErrDuplicateSlug {
			// Generated slugs dedupe with a numeric suffix; explicit ones conflict.
			if autoSlug && attempt < 10 {
				continue
			}
			return nil, apperrors.Conflict("slug already in use")
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if err := s.recordAudit(ctx, &actor.ID, action, "news", saved.ID.String(), map[string]any{"slug": saved.Slug}); err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteNews removes an announcement.
func (s *Service) DeleteNews(ctx context.Context, actor *domain.User, newsID uuid.UUID) error {
	if err := s.news.Delete(ctx, newsID); err != nil {
		return err
	}
	return s.recordAudit(ctx, &actor.ID, "news.delete", "news", newsID.String(), nil)
}

// UpdateStudio replaces the studio profile.
func (s *Service) UpdateStudio(ctx context.Context, actor *domain.User, st *domain.Studio) (*domain.Studio, error) {
	if st.NameI18n[domain.LangKo] == "" {
		return nil, apperrors.Validation("korean studio name is required")
	}
	if st.Email != "" {
		if _, err := mail.ParseAddress(st.Email); err != nil {
			return nil, apperrors.Validation("invalid studio email")
		}
	}
	if st.Phone != "" {
		normalized, err := normalizeKoreanPhone(st.Phone)
		if err != nil {
			return nil, apperrors.Validation("invalid studio phone number")
		}
		st.Phone = normalized
	}
	saved, err := s.studio.Update(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := s.recordAudit(ctx, &actor.ID, "studio.update", "studio", "studio", nil); err != nil {
		return nil, err
	}
	return saved, nil
}

// GetAvailability returns the scheduling configuration, pending change
// included.
func (s *Service) GetAvailability(ctx context.Context) (*domain.Availability, error) {
	return s.availability.Get(ctx)
}

// UpdateAvailabilityInput carries a scheduling configuration change. A nil
// BaseDays leaves the weekday set untouched; a non-nil one is staged to take
// effect the following Monday.
type UpdateAvailabilityInput struct {
	BaseDays   []int
	Rules      []domain.Rule
	Exceptions []domain.Exception
}

// UpdateAvailability applies scheduling changes. Rules and exceptions apply
// immediately; base weekday changes are deferred to next Monday midnight
// studio time so already-published weeks keep their shape.
func (s *Service) UpdateAvailability(ctx context.Context, actor *domain.User, in UpdateAvailabilityInput) (*domain.Availability, error) {
	for _, r := range in.Rules {
		if err := validateRule(r); err != nil {
			return nil, err
		}
	}
	for _, ex := range in.Exceptions {
		if err := validateException(ex); err != nil {
			return nil, err
		}
	}
	var pending []int
	if in.BaseDays != nil {
		days, err := normalizeBaseDays(in.BaseDays)
		if err != nil {
			return nil, err
		}
		pending = days
	}

	current, err := s.availability.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	current.Rules = in.Rules
	current.Exceptions = in.Exceptions

	if pending != nil {
		effective := schedule.NextMonday(now, schedule.Seoul)
		current.PendingBaseDays = pending
		current.BaseDaysEffectiveFrom = &effective
	}

	saved, err := s.availability.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	if err := s.recordAudit(ctx, &actor.ID, "availability.update", "availability", "availability", nil); err != nil {
		return nil, err
	}
	return saved, nil
}

func normalizeBaseDays(days []int) ([]int, error) {
	seen := map[int]bool{}
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, apperrors.Validation("base day out of range")
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out, nil
}

func validateRule(r domain.Rule) error {
	if len(r.DOW) == 0 {
		return apperrors.Validation("rule needs at least one weekday")
	}
	for _, d := range r.DOW {
		if d < 0 || d > 6 {
			return apperrors.Validation("rule weekday out of range")
		}
	}
	start, err := schedule.ParseHHMM(r.Start)
	if err != nil {
		return apperrors.Validation("invalid rule start time: " + r.Start)
	}
	end, err := schedule.ParseHHMM(r.End)
	if err != nil {
		return apperrors.Validation("invalid rule end time: " + r.End)
	}
	if start >= end {
		return apperrors.Validation("rule start must be before end")
	}
	if r.SlotMin < 15 || r.SlotMin%15 != 0 {
		return apperrors.Validation("rule slot length must be a multiple of 15 minutes, at least 15")
	}
	for _, b := range r.Breaks {
		bs, err := schedule.ParseHHMM(b.Start)
		if err != nil {
			return apperrors.Validation("invalid break start time: " + b.Start)
		}
		be, err := schedule.ParseHHMM(b.End)
		if err != nil {
			return apperrors.Validation("invalid break end time: " + b.End)
		}
		if bs >= be {
			return apperrors.Validation("break start must be before end")
		}
	}
	return nil
}

func validateException(ex domain.Exception) error {
	if _, err := time.ParseInLocation("2006-01-02", ex.Date, schedule.Seoul); err != nil {
		return apperrors.Validation("invalid exception date: " + ex.Date)
	}
	for _, b := range ex.Blocks {
		bs, err := schedule.ParseHHMM(b.Start)
		if err != nil {
			return apperrors.Validation("invalid block start time: " + b.Start)
		}
		be, err := schedule.ParseHHMM(b.End)
		if err != nil {
			return apperrors.Validation("invalid block end time: " + b.End)
		}
		if bs >= be {
			return apperrors.Validation("block start must be before end")
		}
	}
	return nil
}

// ModerateReview moves a review to a new moderation state.
func (s *Service) ModerateReview(ctx context.Context, actor *domain.User, reviewID uuid.UUID, to domain.ReviewStatus) (*domain.Review, error) {
	if !to.Valid() {
		return nil, apperrors.Validation("unknown review status")
	}
	r, err := s.reviews.UpdateStatus(ctx, reviewID, to)
	if err != nil {
		return nil, err
	}
	if err := s.recordAudit(ctx, &actor.ID, "review."+string(to), "review", reviewID.String(), nil); err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviewsForModeration returns reviews in a given moderation state.
func (s *Service) ListReviewsForModeration(ctx context.Context, status domain.ReviewStatus, p domain.Pagination) ([]domain.Review, int, error) {
	return s.reviews.List(ctx, status, p)
}

// SearchUsers looks customers up by name, email, or phone fragment.
func (s *Service) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.Search(ctx, query, limit)
}

// ListAudit returns the back-office audit trail.
func (s *Service) ListAudit(ctx context.Context, f domain.AuditFilter, p domain.Pagination) ([]domain.AuditEntry, int, error) {
	return s.audit.List(ctx, f, p)
}

// DashboardRollups returns the per-day aggregates for the dashboard charts.
// Dates are YYYY-MM-DD in studio-local time.
// DashboardRollups serves stored rollups for closed days and computes the
// current KST day live when the range reaches it.
func (s *Service) DashboardRollups(ctx context.Context, from, to string) ([]domain.DailyRollup, error) {
	rollups, err := s.rollups.GetRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().In(schedule.Seoul)
	today := now.Format("2006-01-02")
	if to < today || from > today {
		return rollups, nil
	}
	for _, r := range rollups {
		if r.Date == today {
			return rollups, nil
		}
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, schedule.Seoul)
	live, err := s.rollups.ComputeForDate(ctx, dayStart.UTC(), now.UTC(), today)
	if err != nil {
		return nil, err
	}
	return append(rollups, *live), nil
}

// normalizeKoreanPhone rewrites a Korean phone number into the
// +82-XX-XXXX-XXXX form the public site displays.
func normalizeKoreanPhone(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	digits = strings.TrimPrefix(digits, "82")
	digits = strings.TrimPrefix(digits, "0")
	if len(digits) < 9 || len(digits) > 10 {
		return "", fmt.Errorf("unexpected phone number length %d", len(digits))
	}
	rest := digits[2:]
	mid := len(rest) - 4
	return fmt.Sprintf("+82-%s-%s-%s", digits[:2], rest[:mid], rest[mid:]), nil
}
