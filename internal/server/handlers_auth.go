package server

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
)

type magicLinkRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleRequestMagicLink(c echo.Context) error {
	var req magicLinkRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if !s.loginBurst.Allow(c.RealIP()) {
		return apperrors.RateLimit("too many login link requests")
	}
	if err := s.app.RequestMagicLink(c.Request().Context(), req.Email); err != nil {
		return mapErr(err)
	}
	return ok(c, 200, map[string]string{"message": "login link sent"})
}

func (s *Server) handleVerifyMagicLink(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return apperrors.Validation("token is required")
	}

	sess, user, err := s.app.VerifyMagicLink(c.Request().Context(), token)
	if err != nil {
		return mapErr(err)
	}

	s.setSessionCookie(c, sess)
	return ok(c, 200, toUserView(user))
}

func (s *Server) handleLogout(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := s.app.Logout(c.Request().Context(), cookie.Value); err != nil {
			return mapErr(err)
		}
	}
	s.clearSessionCookie(c)
	return ok(c, 200, map[string]string{"message": "logged out"})
}

func (s *Server) handleLogoutAll(c echo.Context) error {
	user := currentUser(c)
	if err := s.app.LogoutAll(c.Request().Context(), user.ID); err != nil {
		return mapErr(err)
	}
	s.clearSessionCookie(c)
	return ok(c, 200, map[string]string{"message": "all sessions revoked"})
}
