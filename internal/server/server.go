package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/einartakla1/dncs-poll-api/internal/config"
	apperrors "github.com/einartakla1/dncs-poll-api/internal/errors"
	"github.com/einartakla1/dncs-poll-api/internal/identity"
	"github.com/einartakla1/dncs-poll-api/internal/poll"
)

type Server struct {
	echo     *echo.Echo
	config   *config.Config
	polls    *poll.Service
	store    poll.Store
	resolver identity.Resolver

	startTime time.Time
}

func NewServer(cfg *config.Config, polls *poll.Service, store poll.Store, resolver identity.Resolver) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:     e,
		config:   cfg,
		polls:    polls,
		store:    store,
		resolver: resolver,

		startTime: time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
