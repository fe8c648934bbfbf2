package service

import (
	"context"
	"log/slog"

	"sea/internal/domain"
	"sea/internal/geo"
	"sea/pkg/e"

	"github.com/benbjohnson/clock"
)

type TrackingService struct {
	store  TrackingStore
	cache  LiveLocationCache
	clock  clock.Clock
	logger *slog.Logger
}

func NewTrackingService(store TrackingStore, cache LiveLocationCache, clk clock.Clock, logger *slog.Logger) *TrackingService {
	if clk == nil {
		clk = clock.New()
	}
	return &TrackingService{store: store, cache: cache, clock: clk, logger: logger}
}

func (s *TrackingService) UpdateLocation(ctx context.Context, req domain.UpdateLocationRequest) (*domain.TrackingPoint, error) {
	const op = "service.TrackingService.UpdateLocation"
	l := withRequestID(ctx, s.logger)

	if req.Latitude.Empty() || req.Longitude.Empty() {
		return nil, e.ErrMissingLocation
	}

	lat, lng, err := geo.NormalizePair(req.Latitude.String(), req.Longitude.String())
	if err != nil {
		l.Warn("location rejected", slog.Any("error", err))
		return nil, err
	}

	p := &domain.TrackingPoint{
		Latitude:  lat,
		Longitude: lng,
		Timestamp: s.clock.Now().UTC(),
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, e.Wrap(op, err)
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, p); err != nil {
			l.Warn("live location cache update failed", slog.Any("error", err))
		}
	}

	l.Debug("location updated", slog.Int64("id", p.ID), slog.String("lat", lat), slog.String("lng", lng))
	return p, nil
}

// Latest returns nil, nil when nothing has been tracked yet.
func (s *TrackingService) Latest(ctx context.Context) (*domain.TrackingPoint, error) {
	const op = "service.TrackingService.Latest"
	l := withRequestID(ctx, s.logger)

	if s.cache != nil {
		p, err := s.cache.GetLatest(ctx)
		if err == nil && p != nil {
			return p, nil
		}
		if err != nil {
			l.Warn("live location cache read failed", slog.Any("error", err))
		}
	}

	p, err := s.store.Latest(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if p != nil && s.cache != nil {
		if err := s.cache.SetLatest(ctx, p); err != nil {
			l.Warn("live location cache refill failed", slog.Any("error", err))
		}
	}
	return p, nil
}

func (s *TrackingService) History(ctx context.Context) ([]domain.TrackingPoint, error) {
	const op = "service.TrackingService.History"

	points, err := s.store.History(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return points, nil
}
