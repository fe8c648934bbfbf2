package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sea/internal/api/handlers/http/alerts"
	"sea/internal/api/handlers/http/contacts"
	"sea/internal/api/handlers/http/system"
	"sea/internal/api/handlers/http/tracking"
	"sea/internal/config"
	"sea/internal/middleware"
	"sea/internal/ratelimit"
	"sea/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

type Handlers struct {
	Alerts   *alerts.Handler
	Contacts *contacts.Handler
	Tracking *tracking.Handler
	System   *system.Handler
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, limiter ratelimit.Limiter, checks map[string]system.Pinger) *Server {
	h := Handlers{
		Alerts:   alerts.NewHandler(logger, svc.Alerts, svc.Stats),
		Contacts: contacts.NewHandler(logger, svc.Contacts),
		Tracking: tracking.NewHandler(logger, svc.Tracking),
		System:   system.NewHandler(logger, checks),
	}

	r := InitRouter(h, limiter, cfg.RateLimit.Window, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(h Handlers, limiter ratelimit.Limiter, window time.Duration, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	// request id first so chimw.Logger and every handler log line carry it
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.Instrument)

	limit := middleware.RateLimit(limiter, window, logger)

	// ALERTS
	r.With(limit).Post("/send_alert", middleware.BindJSON(h.Alerts.SendAlert))
	r.Get("/alerts", h.Alerts.ListAlerts)
	r.Get("/get_alerts", h.Alerts.ListAlerts)
	r.Get("/stats", h.Alerts.GetStats)

	// CONTACTS
	r.With(limit).Post("/add_contact", middleware.BindJSON(h.Contacts.AddContact))
	r.Get("/get_contacts", h.Contacts.ListContacts)

	// TRACKING
	r.Post("/update_location", middleware.BindJSON(h.Tracking.UpdateLocation))
	r.Get("/get_live_location", h.Tracking.LiveLocation)
	r.Get("/get_tracking_history", h.Tracking.History)

	// SYSTEM
	r.Get("/health", h.System.SystemHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
