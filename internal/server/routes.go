package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Admin routes (API-key gated, server-to-server; no CORS)
	admin := s.echo.Group("/api/polls", s.requireAdmin)
	admin.POST("", s.handleCreatePoll)
	admin.GET("", s.handleListPolls)
	admin.POST("/update", s.handleUpdatePoll)
	admin.POST("/status", s.handleSetStatus)
	admin.POST("/delete", s.handleDeletePoll)

	// Public routes (origin allow-list, transport-level rate limit; the
	// domain rate limiter inside the vote path is separate)
	public := s.echo.Group("/api")
	if len(s.config.AllowedOrigins) > 0 {
		public.Use(newCORSMiddleware(s.config.AllowedOrigins))
	}
	public.Use(newRateLimiter(publicRatePerSecond, publicRateBurst))
	public.GET("/results", s.handleResults)
	public.POST("/vote", s.handleVote)
}
