package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sea/internal/api"
	"sea/internal/api/handlers/http/system"
	"sea/internal/config"
	"sea/internal/notify"
	"sea/internal/ratelimit"
	"sea/internal/redis"
	"sea/internal/service"
	"sea/internal/storage/postgres"
	"sea/internal/storage/sqlite"
	"sea/pkg/logger"

	"github.com/benbjohnson/clock"
)

// Store is the persistence backend picked by STORAGE_DRIVER.
type Store interface {
	Ping(ctx context.Context) error
	Close() error
}

type stores struct {
	Store
	alerts   service.AlertStore
	contacts service.ContactStore
	tracking service.TrackingStore
	stats    service.StatsStore
}

type Components struct {
	logger      *slog.Logger
	HttpServer  *api.Server
	Store       Store
	Redis       *redis.Redis
	EventSender *service.AlertEventSender
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	comps := &Components{logger: logger, Store: st.Store}
	clk := clock.New()
	checks := map[string]system.Pinger{"store": st.Store}

	var (
		liveCache service.LiveLocationCache
		events    service.AlertEventQueue
	)
	if cfg.Redis.Enabled {
		logger.Info("Initializing Redis")
		rdb, err := redis.NewRedis(ctx, cfg, logger)
		if err != nil {
			comps.ShutdownAll()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		comps.Redis = rdb
		checks["redis"] = rdb

		liveCache = redis.NewLiveLocationCache(rdb.Client, cfg.Redis.LiveLocationTTL)
		queue := redis.NewAlertEventQueue(rdb.Client, redis.AlertEventsKey)
		if cfg.Webhook.URL != "" {
			events = queue
			comps.EventSender = service.NewAlertEventSender(logger, service.WebhookConfig{URL: cfg.Webhook.URL}, queue)
		}
	}

	limiter, err := newLimiter(cfg, comps.Redis, clk, logger)
	if err != nil {
		comps.ShutdownAll()
		return nil, err
	}

	email, sms := notify.NewChannels(notify.Config{
		DemoMode:    cfg.Notify.DemoMode,
		MapsBaseURL: cfg.Notify.MapsBaseURL,
		Email: notify.EmailConfig{
			Host:     cfg.Notify.SMTP.Host,
			Port:     cfg.Notify.SMTP.Port,
			Username: cfg.Notify.SMTP.User,
			Password: cfg.Notify.SMTP.Password,
			From:     cfg.Notify.SMTP.From,
		},
		SMS: notify.SMSConfig{
			AccountSID:    cfg.Notify.Twilio.AccountSID,
			AuthToken:     cfg.Notify.Twilio.AuthToken,
			FromNumber:    cfg.Notify.Twilio.FromNumber,
			RatePerSecond: cfg.Notify.SMSRatePerSec,
		},
	}, logger)
	if cfg.Notify.DemoMode {
		logger.Warn("DEMO MODE enabled: notifications are simulated")
	}

	dispatcher := service.NewAlertDispatcher(st.alerts, st.contacts, email, sms, events, clk, logger, service.DispatcherConfig{
		SendTimeout:       cfg.Dispatch.SendTimeout,
		MaxParallel:       cfg.Dispatch.MaxParallel,
		StrictCoordinates: cfg.Dispatch.StrictCoordinates,
	})
	svc := service.NewService(
		dispatcher,
		service.NewContactService(st.contacts, cfg.Notify.DefaultCountry, logger),
		service.NewTrackingService(st.tracking, liveCache, clk, logger),
		service.NewStatsService(st.stats, clk),
	)

	comps.HttpServer = api.NewServer(cfg, logger, svc, limiter, checks)
	logger.Info("Initialized server")

	return comps, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		logger.Info("Initializing Postgres")
		pg, err := postgres.NewPostgres(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to init postgres", slog.Any("error", err))
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		return &stores{Store: pg, alerts: pg.Alert, contacts: pg.Contact, tracking: pg.Tracking, stats: pg.Stat}, nil
	default:
		logger.Info("Initializing SQLite", slog.String("path", cfg.Storage.SQLitePath))
		lite, err := sqlite.Open(ctx, cfg.Storage.SQLitePath, logger)
		if err != nil {
			logger.Error("Failed to init sqlite", slog.Any("error", err))
			return nil, fmt.Errorf("failed to init sqlite: %w", err)
		}
		return &stores{Store: lite, alerts: lite.Alert, contacts: lite.Contact, tracking: lite.Tracking, stats: lite.Stat}, nil
	}
}

func newLimiter(cfg *config.Config, rdb *redis.Redis, clk clock.Clock, logger *slog.Logger) (ratelimit.Limiter, error) {
	rl := ratelimit.Config{
		Max:        cfg.RateLimit.Max,
		Window:     cfg.RateLimit.Window,
		MaxClients: cfg.RateLimit.MaxClients,
	}
	if cfg.RateLimit.Backend == "redis" && rdb != nil {
		logger.Info("Rate limiter backed by Redis")
		return ratelimit.NewRedis(rdb.Client, rl, clk, logger)
	}
	return ratelimit.NewMemory(rl, clk)
}

func SetupLogger(env, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info":
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelInfo
		if env == "local" || env == "dev" {
			lvl = slog.LevelDebug
		}
	}

	switch env {
	case "local":
		return slog.New(logger.NewPrettyHandler(os.Stdout, lvl))
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: lvl,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.logger.Error("Store close failed", slog.String("err", err.Error()))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
