package service

import (
	"context"
	"log/slog"
	"time"

	"sea/internal/domain"
	"sea/internal/notify"

	chimw "github.com/go-chi/chi/v5/middleware"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type AlertStore interface {
	Insert(ctx context.Context, lat, lng string, ts time.Time) (int64, error)
	List(ctx context.Context) ([]domain.Alert, error)
}

type ContactStore interface {
	Insert(ctx context.Context, c *domain.Contact) error
	List(ctx context.Context) ([]domain.Contact, error)
}

type TrackingStore interface {
	Insert(ctx context.Context, p *domain.TrackingPoint) error
	Latest(ctx context.Context) (*domain.TrackingPoint, error)
	History(ctx context.Context) ([]domain.TrackingPoint, error)
}

type StatsStore interface {
	CountAlertsSince(ctx context.Context, since time.Time) (int64, error)
	CountTrackingSince(ctx context.Context, since time.Time) (int64, error)
}

// LiveLocationCache is optional; a nil cache sends every read to the store.
type LiveLocationCache interface {
	GetLatest(ctx context.Context) (*domain.TrackingPoint, error)
	SetLatest(ctx context.Context, p *domain.TrackingPoint) error
}

type AlertEventQueue interface {
	Enqueue(ctx context.Context, ev domain.AlertEvent) error
}

type AlertEventSource interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.AlertEvent, error)
}

// Notifier is satisfied by every notify.Channel.
type Notifier interface {
	Kind() notify.Kind
	Send(ctx context.Context, msg notify.Message) error
}

type Service struct {
	Alerts   *AlertDispatcher
	Contacts *ContactService
	Tracking *TrackingService
	Stats    *StatsService
}

func NewService(
	alerts *AlertDispatcher,
	contacts *ContactService,
	tracking *TrackingService,
	stats *StatsService,
) *Service {
	return &Service{
		Alerts:   alerts,
		Contacts: contacts,
		Tracking: tracking,
		Stats:    stats,
	}
}

func withRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := chimw.GetReqID(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With(slog.String("request_id", reqID))
}
