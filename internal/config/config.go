package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string          `json:"env"`
	LogLevel  string          `json:"log_level"`
	Http      HttpConfig      `json:"http"`
	Storage   StorageConfig   `json:"storage"`
	Postgres  PostgresConfig  `json:"postgres"`
	Redis     RedisConfig     `json:"redis"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Notify    NotifyConfig    `json:"notify"`
	Dispatch  DispatchConfig  `json:"dispatch"`
	Webhook   WebhookConfig   `json:"webhook"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver     string `json:"driver"`
	SQLitePath string `json:"sqlite_path"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Enabled         bool          `json:"enabled"`
	Addr            string        `json:"addr"`
	Password        string        `json:"password,omitempty"`
	DB              int           `json:"db"`
	LiveLocationTTL time.Duration `json:"live_location_ttl"`
}

type RateLimitConfig struct {
	Backend    string        `json:"backend"`
	Max        int           `json:"max"`
	Window     time.Duration `json:"window"`
	MaxClients int           `json:"max_clients"`
}

type NotifyConfig struct {
	DemoMode       bool    `json:"demo_mode"`
	MapsBaseURL    string  `json:"maps_base_url"`
	DefaultCountry string  `json:"default_country"`
	SMTP           SMTP    `json:"smtp"`
	Twilio         Twilio  `json:"twilio"`
	SMSRatePerSec  float64 `json:"sms_rate_per_second"`
}

type SMTP struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	From     string `json:"from"`
}

type Twilio struct {
	AccountSID string `json:"account_sid"`
	AuthToken  string `json:"-"`
	FromNumber string `json:"from_number"`
}

type DispatchConfig struct {
	SendTimeout       time.Duration `json:"send_timeout"`
	MaxParallel       int           `json:"max_parallel"`
	StrictCoordinates bool          `json:"strict_coordinates"`
}

type WebhookConfig struct {
	URL string `json:"url"`
}

func Load(ctx context.Context) (*Config, error) {

	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.Bool("redis_enabled", cfg.Redis.Enabled),
		slog.String("rate_limit_backend", cfg.RateLimit.Backend),
		slog.Bool("demo_mode", cfg.Notify.DemoMode),
		slog.Bool("strict_coordinates", cfg.Dispatch.StrictCoordinates))

	return cfg, nil
}

// FromEnv reads the process environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		Env:      getEnv("ENV", "local"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "")),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":5000"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
			SQLitePath: getEnv("SQLITE_PATH", "alerts.db"),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "sea"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        20,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Enabled:         getEnvBool("REDIS_ENABLED", false),
			Addr:            getEnv("REDIS_ADDR", "localhost:6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			LiveLocationTTL: getEnvDuration("LIVE_LOCATION_TTL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Backend:    strings.ToLower(getEnv("RATE_LIMIT_BACKEND", "memory")),
			Max:        getEnvInt("RATE_LIMIT_MAX", 5),
			Window:     time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
			MaxClients: getEnvInt("RATE_LIMIT_MAX_CLIENTS", 10000),
		},
		Notify: NotifyConfig{
			DemoMode:       getEnvBool("DEMO_MODE", true),
			MapsBaseURL:    getEnv("MAPS_BASE_URL", "https://www.google.com/maps"),
			DefaultCountry: strings.ToUpper(getEnv("DEFAULT_COUNTRY", "IN")),
			SMTP: SMTP{
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnvInt("SMTP_PORT", 587),
				User:     getEnv("SMTP_USER", ""),
				Password: getEnv("SMTP_PASS", ""),
				From:     getEnv("EMERGENCY_EMAIL_FROM", ""),
			},
			Twilio: Twilio{
				AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
				AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
				FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
			},
			SMSRatePerSec: getEnvFloat("SMS_RATE_PER_SECOND", 0),
		},
		Dispatch: DispatchConfig{
			SendTimeout:       getEnvDuration("DISPATCH_SEND_TIMEOUT", 10*time.Second),
			MaxParallel:       getEnvInt("DISPATCH_MAX_PARALLEL", 8),
			StrictCoordinates: getEnvBool("ALERT_STRICT_COORDINATES", true),
		},
		Webhook: WebhookConfig{
			URL: getEnv("WEBHOOK_URL", ""),
		},
	}
}

func (c *Config) Validate() error {

	if c.Http.Port == "" || (len(c.Http.Port) > 0 && c.Http.Port[0] != ':') {
		return errors.New("HTTP_PORT must start with ':' like ':5000'")
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH required")
		}
	case "postgres":
		if c.Postgres.Host == "" {
			return errors.New("POSTGRES_HOST required")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be sqlite or postgres, got %q", c.Storage.Driver)
	}

	switch c.RateLimit.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return errors.New("RATE_LIMIT_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis, got %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Max < 1 {
		return errors.New("RATE_LIMIT_MAX must be at least 1")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW_SECONDS must be positive")
	}

	if c.Dispatch.SendTimeout <= 0 {
		return errors.New("DISPATCH_SEND_TIMEOUT must be positive")
	}
	if c.Dispatch.MaxParallel < 1 {
		return errors.New("DISPATCH_MAX_PARALLEL must be at least 1")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
