package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sea/internal/domain"
	"sea/internal/metrics"
	"sea/pkg/e"

	"github.com/cenkalti/backoff/v4"
)

type WebhookConfig struct {
	URL             string
	Timeout         time.Duration
	MaxTries        uint64
	InitialInterval time.Duration
	PollTimeout     time.Duration
}

// AlertEventSender forwards queued alert events to an outbound webhook.
type AlertEventSender struct {
	logger *slog.Logger
	cfg    WebhookConfig
	queue  AlertEventSource
	http   *http.Client
}

func NewAlertEventSender(logger *slog.Logger, cfg WebhookConfig, q AlertEventSource) *AlertEventSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = 3
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	return &AlertEventSender{
		logger: logger,
		cfg:    cfg,
		queue:  q,
		http:   &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *AlertEventSender) Run(ctx context.Context) {
	s.logger.Info("alert event sender started", slog.String("url", s.cfg.URL))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("alert event sender stopped", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		ev, err := s.queue.BRPop(ctx, s.cfg.PollTimeout)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) || ctx.Err() != nil {
				continue
			}
			s.logger.Error("BRPop failed", slog.Any("error", err))
			select {
			case <-ctx.Done():
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}

		if err := s.Deliver(ctx, ev); err != nil {
			s.logger.Error("alert event dropped",
				slog.Int64("alert_id", ev.AlertID),
				slog.Any("error", err),
			)
		}
	}
}

// Deliver posts one event, retrying transport errors and 5xx responses with
// exponential backoff. A 4xx response is not retried.
func (s *AlertEventSender) Deliver(ctx context.Context, ev domain.AlertEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}

	attempt := 0
	post := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.http.Do(req)
		if err != nil {
			s.logger.Warn("webhook failed", slog.Int("attempt", attempt), slog.String("reason", err.Error()))
			return err
		}
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500:
			s.logger.Warn("webhook failed", slog.Int("attempt", attempt), slog.String("reason", resp.Status))
			return fmt.Errorf("webhook status %s", resp.Status)
		default:
			return backoff.Permanent(fmt.Errorf("webhook status %s", resp.Status))
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, s.cfg.MaxTries-1), ctx)

	if err := backoff.Retry(post, policy); err != nil {
		metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
		return err
	}

	metrics.WebhookDeliveries.WithLabelValues("sent").Inc()
	s.logger.Info("webhook delivered", slog.Int64("alert_id", ev.AlertID), slog.Int("attempts", attempt))
	return nil
}
