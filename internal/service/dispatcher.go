package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sea/internal/domain"
	"sea/internal/geo"
	"sea/internal/metrics"
	"sea/internal/notify"
	"sea/pkg/e"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"
)

type DispatcherConfig struct {
	SendTimeout       time.Duration
	MaxParallel       int
	StrictCoordinates bool
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		SendTimeout:       10 * time.Second,
		MaxParallel:       8,
		StrictCoordinates: true,
	}
}

// AlertDispatcher records an alert and fans it out to every contact.
// Channel failures never fail the dispatch; they show up as false in the
// per-contact results.
type AlertDispatcher struct {
	alerts   AlertStore
	contacts ContactStore
	email    Notifier
	sms      Notifier
	events   AlertEventQueue
	clock    clock.Clock
	logger   *slog.Logger
	cfg      DispatcherConfig
}

func NewAlertDispatcher(
	alerts AlertStore,
	contacts ContactStore,
	email, sms Notifier,
	events AlertEventQueue,
	clk clock.Clock,
	logger *slog.Logger,
	cfg DispatcherConfig,
) *AlertDispatcher {
	def := DefaultDispatcherConfig()
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = def.SendTimeout
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = def.MaxParallel
	}
	if clk == nil {
		clk = clock.New()
	}
	return &AlertDispatcher{
		alerts:   alerts,
		contacts: contacts,
		email:    email,
		sms:      sms,
		events:   events,
		clock:    clk,
		logger:   logger,
		cfg:      cfg,
	}
}

func (d *AlertDispatcher) Dispatch(ctx context.Context, req domain.SendAlertRequest) (*domain.DispatchResult, error) {
	const op = "service.AlertDispatcher.Dispatch"
	l := withRequestID(ctx, d.logger)

	if req.Latitude.Empty() || req.Longitude.Empty() {
		l.Warn("alert rejected: missing location")
		return nil, e.ErrMissingLocation
	}

	lat := strings.TrimSpace(req.Latitude.String())
	lng := strings.TrimSpace(req.Longitude.String())
	if d.cfg.StrictCoordinates {
		var err error
		if lat, lng, err = geo.NormalizePair(lat, lng); err != nil {
			l.Warn("alert rejected: invalid coordinates", slog.Any("error", err))
			return nil, err
		}
	}

	started := d.clock.Now()
	ts := started.UTC()

	id, err := d.alerts.Insert(ctx, lat, lng, ts)
	if err != nil {
		l.Error("alert insert failed", slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}
	metrics.AlertsDispatched.Inc()

	alert := domain.Alert{ID: id, Latitude: lat, Longitude: lng, Timestamp: ts}
	l.Info("alert recorded",
		slog.Int64("alert_id", id),
		slog.String("lat", lat),
		slog.String("lng", lng),
	)

	contacts, err := d.contacts.List(ctx)
	if err != nil {
		l.Error("contact snapshot failed", slog.Int64("alert_id", id), slog.Any("error", err))
		return nil, e.Wrap(op, err)
	}

	res := &domain.DispatchResult{
		Alert:   alert,
		Results: d.fanOut(ctx, alert, contacts),
	}
	metrics.DispatchDuration.Observe(d.clock.Since(started).Seconds())

	d.publish(ctx, res)

	l.Info("alert dispatched",
		slog.Int64("alert_id", id),
		slog.Int("contacts", len(contacts)),
		slog.Int("delivered", res.Delivered()),
		slog.Int("failed", res.Failed()),
	)
	return res, nil
}

func (d *AlertDispatcher) List(ctx context.Context) ([]domain.Alert, error) {
	const op = "service.AlertDispatcher.List"

	alerts, err := d.alerts.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return alerts, nil
}

// fanOut keeps results in snapshot order. Sends outlive the request context
// so a client disconnect does not abort deliveries already under way.
func (d *AlertDispatcher) fanOut(ctx context.Context, alert domain.Alert, contacts []domain.Contact) []domain.DeliveryResult {
	results := make([]domain.DeliveryResult, len(contacts))
	sendCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(d.cfg.MaxParallel)
	for i, c := range contacts {
		i, c := i, c
		g.Go(func() error {
			results[i] = d.deliver(sendCtx, alert, c)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *AlertDispatcher) deliver(ctx context.Context, alert domain.Alert, c domain.Contact) domain.DeliveryResult {
	res := domain.DeliveryResult{Name: c.Name}

	var wg sync.WaitGroup
	if c.HasEmail() {
		res.EmailAttempted = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			res.EmailSent = d.send(ctx, d.email, c.Email, alert)
		}()
	}
	if c.HasPhone() {
		res.SMSAttempted = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			res.SMSSent = d.send(ctx, d.sms, c.Phone, alert)
		}()
	}
	wg.Wait()

	return res
}

// send bounds one provider call by SendTimeout even when the channel ignores
// its context.
func (d *AlertDispatcher) send(ctx context.Context, ch Notifier, recipient string, alert domain.Alert) bool {
	kind := string(ch.Kind())
	l := withRequestID(ctx, d.logger).With(slog.String("channel", kind), slog.Int64("alert_id", alert.ID))

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	msg := notify.Message{
		Recipient: strings.TrimSpace(recipient),
		Latitude:  alert.Latitude,
		Longitude: alert.Longitude,
		Timestamp: alert.Timestamp.Format(time.RFC3339),
	}

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("%s channel panic: %v", kind, r)
			}
		}()
		errCh <- ch.Send(sendCtx, msg)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-sendCtx.Done():
		err = sendCtx.Err()
	}

	if err != nil {
		metrics.Deliveries.WithLabelValues(kind, "failed").Inc()
		l.Warn("delivery failed", slog.Any("error", err))
		return false
	}
	metrics.Deliveries.WithLabelValues(kind, "sent").Inc()
	l.Debug("delivery sent")
	return true
}

func (d *AlertDispatcher) publish(ctx context.Context, res *domain.DispatchResult) {
	if d.events == nil {
		return
	}

	ev := domain.AlertEvent{
		AlertID:   res.Alert.ID,
		Latitude:  res.Alert.Latitude,
		Longitude: res.Alert.Longitude,
		Timestamp: res.Alert.Timestamp,
		Contacts:  len(res.Results),
		Delivered: res.Delivered(),
		Failed:    res.Failed(),
	}
	if err := d.events.Enqueue(context.WithoutCancel(ctx), ev); err != nil {
		withRequestID(ctx, d.logger).Error("enqueue alert event failed",
			slog.Int64("alert_id", ev.AlertID),
			slog.Any("error", err),
		)
	}
}
