package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "STORAGE_DRIVER", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW_SECONDS", "DEMO_MODE", "ALERT_STRICT_COORDINATES", "SMS_RATE_PER_SECOND"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Http.Port != ":5000" {
		t.Fatalf("unexpected port %q", cfg.Http.Port)
	}
	if cfg.RateLimit.Max != 5 || cfg.RateLimit.Window != 60*time.Second {
		t.Fatalf("unexpected rate limit %+v", cfg.RateLimit)
	}
	if !cfg.Notify.DemoMode {
		t.Fatalf("demo mode must default to true")
	}
	if !cfg.Dispatch.StrictCoordinates {
		t.Fatalf("strict coordinates must default to true")
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("unexpected driver %q", cfg.Storage.Driver)
	}
	if cfg.Notify.SMSRatePerSec != 0 {
		t.Fatalf("sms pacing must be off by default, got %v", cfg.Notify.SMSRatePerSec)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("DEMO_MODE", "false")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DISPATCH_SEND_TIMEOUT", "3s")
	t.Setenv("DEFAULT_COUNTRY", "us")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := FromEnv()
	if cfg.RateLimit.Max != 10 || cfg.RateLimit.Window != 30*time.Second {
		t.Fatalf("unexpected rate limit %+v", cfg.RateLimit)
	}
	if cfg.Notify.DemoMode {
		t.Fatalf("expected live mode")
	}
	if cfg.Storage.Driver != "postgres" || cfg.Notify.DefaultCountry != "US" {
		t.Fatalf("expected normalized case: %q %q", cfg.Storage.Driver, cfg.Notify.DefaultCountry)
	}
	if cfg.Dispatch.SendTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Dispatch.SendTimeout)
	}
	if cfg.Notify.SMTP.Port != 587 {
		t.Fatalf("bad int must fall back to default, got %d", cfg.Notify.SMTP.Port)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port without colon", func(c *Config) { c.Http.Port = "5000" }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }},
		{"redis limiter without redis", func(c *Config) { c.RateLimit.Backend = "redis"; c.Redis.Enabled = false }},
		{"zero max", func(c *Config) { c.RateLimit.Max = 0 }},
		{"zero window", func(c *Config) { c.RateLimit.Window = 0 }},
		{"zero parallel", func(c *Config) { c.Dispatch.MaxParallel = 0 }},
	}

	for _, tc := range cases {
		cfg := FromEnv()
		cfg.Http.Port = ":5000"
		cfg.Storage.Driver = "sqlite"
		cfg.RateLimit.Backend = "memory"
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}

	// missing live credentials are not a startup error
	cfg := FromEnv()
	cfg.Http.Port = ":5000"
	cfg.Storage.Driver = "sqlite"
	cfg.RateLimit.Backend = "memory"
	cfg.Notify.DemoMode = false
	cfg.Notify.SMTP = SMTP{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
