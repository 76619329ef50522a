package server

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
)

// sessionAuth resolves the session cookie into a user when present. It never
// fails an anonymous request; requireAuth and requireAdmin do that.
func (s *Server) sessionAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		sess, user, err := s.app.GetSession(c.Request().Context(), cookie.Value)
		if err != nil {
			// Stale cookie; let the request continue anonymously.
			s.clearSessionCookie(c)
			return next(c)
		}

		c.Set("session", sess)
		c.Set("user", user)
		c.Set("userID", user.ID)
		return next(c)
	}
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUser(c) == nil {
			return apperrors.Unauthorized("login required")
		}
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := currentUser(c)
		if u == nil {
			return apperrors.Unauthorized("login required")
		}
		if u.Role != domain.RoleAdmin {
			return apperrors.Forbidden("admin access required")
		}
		return next(c)
	}
}

// rateLimit throttles by user when authenticated, by client IP otherwise.
// A Redis outage fails open.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.limiter == nil {
			return next(c)
		}

		subject := c.RealIP()
		if u := currentUser(c); u != nil {
			subject = u.ID.String()
		}

		allowed, err := s.limiter.Allow(c.Request().Context(), subject)
		if err != nil {
			return next(c)
		}
		if !allowed {
			return apperrors.RateLimit("too many requests")
		}
		return next(c)
	}
}

// language resolves the response language: explicit query param, then the
// user's preference, then Accept-Language, then the configured default.
func (s *Server) language(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lang := c.QueryParam("lang")
		if lang != domain.LangKo && lang != domain.LangEn {
			lang = ""
		}
		if lang == "" {
			if u := currentUser(c); u != nil && u.LangPref != "" {
				lang = u.LangPref
			}
		}
		if lang == "" {
			accept := c.Request().Header.Get("Accept-Language")
			if strings.HasPrefix(accept, "en") {
				lang = domain.LangEn
			}
		}
		if lang == "" {
			lang = s.config.DefaultLang
		}
		c.Set("lang", lang)
		return next(c)
	}
}

func requestLang(c echo.Context) string {
	if lang, _ := c.Get("lang").(string); lang != "" {
		return lang
	}
	return domain.LangKo
}
