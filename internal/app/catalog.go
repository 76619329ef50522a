package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
)

// ListServices returns the active class offerings in display order.
func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.services.ListActive(ctx)
}

// GetServiceByCode resolves a public service code; inactive services are
// hidden from non-admin callers.
func (s *Service) GetServiceByCode(ctx context.Context, code string, actor *domain.User) (*domain.Service, error) {
	svc, err := s.services.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive && (actor == nil || actor.Role != domain.RoleAdmin) {
		return nil, domain.ErrServiceNotFound
	}
	return svc, nil
}

// ListGoods returns purchasable goods.
func (s *Service) ListGoods(ctx context.Context, p domain.Pagination) ([]domain.Goods, int, error) {
	return s.goods.ListVisible(ctx, p)
}

// GetGoodsBySlug resolves a storefront item. Hidden items 404 for customers.
func (s *Service) GetGoodsBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.Goods, error) {
	g, err := s.goods.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if g.Status == domain.GoodsHidden && (actor == nil || actor.Role != domain.RoleAdmin) {
		return nil, domain.ErrGoodsNotFound
	}
	return g, nil
}

// ListWorks returns published gallery pieces, optionally filtered by tag.
func (s *Service) ListWorks(ctx context.Context, tag string, p domain.Pagination) ([]domain.Work, int, error) {
	return s.works.ListPublished(ctx, tag, p)
}

// GetWorkBySlug resolves a gallery piece. Unpublished pieces 404 for
// customers.
func (s *Service) GetWorkBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.Work, error) {
	w, err := s.works.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !w.IsPublished && (actor == nil || actor.Role != domain.RoleAdmin) {
		return nil, domain.ErrWorkNotFound
	}
	return w, nil
}

// ListNews returns published announcements, newest first.
func (s *Service) ListNews(ctx context.Context, p domain.Pagination) ([]domain.News, int, error) {
	return s.news.ListPublished(ctx, p)
}

// GetNewsBySlug resolves an announcement. Drafts 404 for customers.
func (s *Service) GetNewsBySlug(ctx context.Context, slug string, actor *domain.User) (*domain.News, error) {
	n, err := s.news.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !n.IsPublished && (actor == nil || actor.Role != domain.RoleAdmin) {
		return nil, domain.ErrNewsNotFound
	}
	return n, nil
}

// GetStudio returns the public studio profile.
func (s *Service) GetStudio(ctx context.Context) (*domain.Studio, error) {
	return s.studio.Get(ctx)
}

// CreateReviewInput is a customer's review submission.
type CreateReviewInput struct {
	BookingID uuid.UUID
	Rating    int
	Body      string
	Images    []string
}

// CreateReview files a review against the customer's own completed booking.
// Reviews start pending and become visible once approved.
func (s *Service) CreateReview(ctx context.Context, customerID uuid.UUID, in CreateReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}
	if in.Body == "" {
		return nil, apperrors.Validation("review body is required")
	}

	b, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, apperrors.Forbidden("not your booking")
	}
	if b.Status != domain.BookingCompleted {
		return nil, apperrors.Conflict("only completed classes can be reviewed")
	}

	r, err := s.reviews.Create(ctx, &domain.Review{
		BookingID:  b.ID,
		CustomerID: customerID,
		ServiceID:  b.ServiceID,
		Rating:     in.Rating,
		Body:       in.Body,
		Images:     in.Images,
		Status:     domain.ReviewPending,
	})
	if err != nil {
		if err == domain.ErrDuplicateReview {
			return nil, apperrors.Conflict("this booking already has a review")
		}
		return nil, err
	}
	return r, nil
}

// ListApprovedReviews returns published reviews, optionally scoped to one
// service.
func (s *Service) ListApprovedReviews(ctx context.Context, serviceID *uuid.UUID, p domain.Pagination) ([]domain.Review, int, error) {
	return s.reviews.ListApproved(ctx, serviceID, p)
}

// ListMyReviews returns the customer's own reviews in every moderation state.
func (s *Service) ListMyReviews(ctx context.Context, customerID uuid.UUID, p domain.Pagination) ([]domain.Review, int, error) {
	return s.reviews.ListByCustomer(ctx, customerID, p)
}
