// Package server exposes tokenization, annotation and the vocabulary store
// over a JSON REST API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"wordtap/annotate"
	"wordtap/metrics"
	"wordtap/profile"
	"wordtap/progress"
	"wordtap/store"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Profile   *profile.Profile
	Store     *store.Store
	Annotator *annotate.Annotator

	echo     *echo.Echo
	styles   progress.Styles
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

type Option func(*Server)

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func New(p *profile.Profile, st *store.Store, a *annotate.Annotator, opts ...Option) *Server {
	s := &Server{
		Profile:   p,
		Store:     st,
		Annotator: a,
		styles:    p.StyleTable(),
		gatherer:  prometheus.DefaultGatherer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// dev mode exposes internal errors in responses
	e.Debug = p.IsDev()
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	s.echo = e
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.Health)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.gatherer)))

	api := s.echo.Group("/api/v1")
	api.POST("/tokenize", s.Tokenize)
	api.POST("/annotate", s.Annotate)
	api.GET("/words", s.ListWords)
	api.GET("/words/:word", s.GetWord)
	api.PUT("/words/:word", s.UpsertWord)
	api.DELETE("/words/:word", s.DeleteWord)
	api.GET("/stats", s.Stats)
	api.GET("/progress/styles", s.Styles)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				s.logger.LogAttrs(c.Request().Context(), slog.LevelWarn, "request failed", attrs...)
				return nil
			}
			s.logger.LogAttrs(c.Request().Context(), slog.LevelDebug, "request", attrs...)
			return nil
		},
	})
}

// ServeHTTP lets the server be mounted or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start serves on the profile's address until ctx is done, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("wordtap server listening", slog.String("addr", addr), slog.String("mode", s.Profile.Mode))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "failed to serve")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve")
	}
	return nil
}

// Addr returns the bound listener address, empty before Start binds.
func (s *Server) Addr() string {
	if a := s.echo.ListenerAddr(); a != nil {
		return a.String()
	}
	return ""
}

func (s *Server) Health(c echo.Context) error {
	limit := 1
	if _, err := s.Store.ListWords(c.Request().Context(), &store.FindWord{Limit: &limit}); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
