package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability (no auth, no rate limit)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api", s.sessionAuth, s.language, s.rateLimit)

	// Public catalog
	api.GET("/services", s.handleListServices)
	api.GET("/services/:code", s.handleGetService)
	api.GET("/services/:id/slots", s.handleAvailableSlots)
	api.GET("/goods", s.handleListGoods)
	api.GET("/goods/:slug", s.handleGetGoods)
	api.GET("/works", s.handleListWorks)
	api.GET("/works/:slug", s.handleGetWork)
	api.GET("/news", s.handleListNews)
	api.GET("/news/:slug", s.handleGetNews)
	api.GET("/studio", s.handleGetStudio)
	api.GET("/reviews", s.handleListReviews)

	// Auth
	api.POST("/auth/magic-link", s.handleRequestMagicLink)
	api.GET("/auth/verify", s.handleVerifyMagicLink)
	api.POST("/auth/logout", s.handleLogout)
	api.POST("/auth/logout-all", s.handleLogoutAll, s.requireAuth)

	// Orders: creation and code lookup work for guests too
	api.POST("/orders", s.handleCreateOrder)
	api.GET("/orders/lookup/:code", s.handleLookupOrder)
	api.GET("/orders/:id", s.handleGetOrder, s.requireAuth)
	api.POST("/orders/:id/deposit", s.handleSubmitDeposit)
	api.POST("/orders/:id/receipt", s.handleAttachReceipt)
	api.POST("/orders/:id/cancel", s.handleCancelOrder)

	// Bookings require an account
	api.POST("/bookings", s.handleCreateBooking, s.requireAuth)
	api.GET("/bookings/:id", s.handleGetBooking, s.requireAuth)
	api.POST("/bookings/:id/cancel", s.handleCancelBooking, s.requireAuth)
	api.POST("/bookings/:id/reschedule", s.handleRescheduleBooking, s.requireAuth)

	// Profile
	me := api.Group("/me", s.requireAuth)
	me.GET("", s.handleGetProfile)
	me.PATCH("", s.handleUpdateProfile)
	me.GET("/bookings", s.handleListMyBookings)
	me.GET("/orders", s.handleListMyOrders)
	me.GET("/reviews", s.handleListMyReviews)
	me.POST("/reviews", s.handleCreateReview)

	// Back office
	admin := api.Group("/admin", s.requireAdmin)
	admin.GET("/bookings", s.handleAdminListBookings)
	admin.POST("/bookings/:id/transition", s.handleAdminTransitionBooking)
	admin.PATCH("/bookings/:id/memo", s.handleAdminBookingMemo)
	admin.GET("/orders", s.handleAdminListOrders)
	admin.POST("/orders/:id/paid", s.handleAdminMarkOrderPaid)
	admin.POST("/orders/:id/cancel", s.handleAdminCancelOrder)
	admin.PATCH("/orders/:id/memo", s.handleAdminOrderMemo)
	admin.GET("/services", s.handleAdminListServices)
	admin.POST("/services", s.handleAdminSaveService)
	admin.PUT("/services/:id", s.handleAdminSaveService)
	admin.DELETE("/services/:id", s.handleAdminDeleteService)
	admin.GET("/goods", s.handleAdminListGoods)
	admin.POST("/goods", s.handleAdminSaveGoods)
	admin.PUT("/goods/:id", s.handleAdminSaveGoods)
	admin.POST("/goods/:id/stock", s.handleAdminAdjustStock)
	admin.DELETE("/goods/:id", s.handleAdminDeleteGoods)
	admin.GET("/works", s.handleAdminListWorks)
	admin.POST("/works", s.handleAdminSaveWork)
	admin.PUT("/works/:id", s.handleAdminSaveWork)
	admin.DELETE("/works/:id", s.handleAdminDeleteWork)
	admin.GET("/news", s.handleAdminListNews)
	admin.POST("/news", s.handleAdminSaveNews)
	admin.PUT("/news/:id", s.handleAdminSaveNews)
	admin.DELETE("/news/:id", s.handleAdminDeleteNews)
	admin.PUT("/studio", s.handleAdminUpdateStudio)
	admin.GET("/availability", s.handleAdminGetAvailability)
	admin.PUT("/availability", s.handleAdminUpdateAvailability)
	admin.GET("/reviews", s.handleAdminListReviews)
	admin.POST("/reviews/:id/moderate", s.handleAdminModerateReview)
	admin.GET("/users", s.handleAdminSearchUsers)
	admin.GET("/audit", s.handleAdminListAudit)
	admin.GET("/dashboard", s.handleAdminDashboard)
}
