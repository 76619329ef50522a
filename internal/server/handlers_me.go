package server

import (
	"github.com/labstack/echo/v4"

	"github.com/CelestynPark/PenArt-Reservation/internal/app"
	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

func (s *Server) handleGetProfile(c echo.Context) error {
	u, err := s.app.GetProfile(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toUserView(u))
}

type updateProfileRequest struct {
	Name     *string              `json:"name"`
	Phone    *string              `json:"phone"`
	LangPref *string              `json:"lang_pref"`
	Channels *domain.ChannelPrefs `json:"channels"`
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	u, err := s.app.UpdateProfile(c.Request().Context(), currentUser(c).ID, domain.UserUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		LangPref: req.LangPref,
		Channels: req.Channels,
	})
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toUserView(u))
}

func (s *Server) handleListMyBookings(c echo.Context) error {
	p := pagination(c)
	bookings, total, err := s.app.ListMyBookings(c.Request().Context(), currentUser(c).ID, p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, toBookingViews(bookings), p, total)
}

func (s *Server) handleListMyOrders(c echo.Context) error {
	p := pagination(c)
	orders, total, err := s.app.ListMyOrders(c.Request().Context(), currentUser(c).ID, p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, toOrderViews(orders, requestLang(c)), p, total)
}

func (s *Server) handleListMyReviews(c echo.Context) error {
	p := pagination(c)
	reviews, total, err := s.app.ListMyReviews(c.Request().Context(), currentUser(c).ID, p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, toReviewViews(reviews), p, total)
}

type createReviewRequest struct {
	BookingID string   `json:"booking_id"`
	Rating    int      `json:"rating"`
	Body      string   `json:"body"`
	Images    []string `json:"images"`
}

func (s *Server) handleCreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	bookingID, err := parseUUIDField(req.BookingID, "booking_id")
	if err != nil {
		return err
	}

	r, err := s.app.CreateReview(c.Request().Context(), currentUser(c).ID, app.CreateReviewInput{
		BookingID: bookingID,
		Rating:    req.Rating,
		Body:      req.Body,
		Images:    req.Images,
	})
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 201, toReviewView(*r))
}
