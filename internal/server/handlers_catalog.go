package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
)

func (s *Server) handleListServices(c echo.Context) error {
	services, err := s.app.ListServices(c.Request().Context())
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toServiceViews(services, requestLang(c)))
}

func (s *Server) handleGetService(c echo.Context) error {
	svc, err := s.app.GetServiceByCode(c.Request().Context(), c.Param("code"), currentUser(c))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toServiceView(*svc, requestLang(c)))
}

func (s *Server) handleAvailableSlots(c echo.Context) error {
	serviceID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	slots, err := s.app.AvailableSlots(c.Request().Context(), serviceID, c.QueryParam("date"))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toSlotViews(slots))
}

func (s *Server) handleListGoods(c echo.Context) error {
	p := pagination(c)
	goods, total, err := s.app.ListGoods(c.Request().Context(), p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, toGoodsViews(goods, requestLang(c)), p, total)
}

func (s *Server) handleGetGoods(c echo.Context) error {
	g, err := s.app.GetGoodsBySlug(c.Request().Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toGoodsView(*g, requestLang(c)))
}

func (s *Server) handleListWorks(c echo.Context) error {
	p := pagination(c)
	works, total, err := s.app.ListWorks(c.Request().Context(), c.QueryParam("tag"), p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, toWorkViews(works, requestLang(c)), p, total)
}

func (s *Server) handleGetWork(c echo.Context) error {
	w, err := s.app.GetWorkBySlug(c.Request().Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toWorkView(*w, requestLang(c)))
}

func (s *Server) handleListNews(c echo.Context) error {
	p := pagination(c)
	news, total, err := s.app.ListNews(c.Request().Context(), p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, toNewsViews(news, requestLang(c)), p, total)
}

func (s *Server) handleGetNews(c echo.Context) error {
	n, err := s.app.GetNewsBySlug(c.Request().Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toNewsView(*n, requestLang(c)))
}

func (s *Server) handleGetStudio(c echo.Context) error {
	st, err := s.app.GetStudio(c.Request().Context())
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toStudioView(st, requestLang(c)))
}

func (s *Server) handleListReviews(c echo.Context) error {
	p := pagination(c)
	var serviceID *uuid.UUID
	if raw := c.QueryParam("service_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.Validation("invalid service_id")
		}
		serviceID = &id
	}
	reviews, total, err := s.app.ListApprovedReviews(c.Request().Context(), serviceID, p)
	if err != nil {
		return mapErr(err)
	}
	return okList(c, toReviewViews(reviews), p, total)
}
