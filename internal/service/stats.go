package service

import (
	"context"
	"fmt"
	"time"

	"sea/internal/domain"
	"sea/pkg/e"
	"sea/pkg/validator"

	"github.com/benbjohnson/clock"
)

const defaultStatsMinutes = 60

type StatsService struct {
	repo  StatsStore
	clock clock.Clock
}

func NewStatsService(repo StatsStore, clk clock.Clock) *StatsService {
	if clk == nil {
		clk = clock.New()
	}
	return &StatsService{repo: repo, clock: clk}
}

func (s *StatsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.Stats, error) {
	const op = "service.StatsService.GetStats"

	if req.Minutes == 0 {
		req.Minutes = defaultStatsMinutes
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", e.ErrInvalidInput, validator.Describe(err))
	}

	since := s.clock.Now().UTC().Add(-time.Duration(req.Minutes) * time.Minute)

	alerts, err := s.repo.CountAlertsSince(ctx, since)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	points, err := s.repo.CountTrackingSince(ctx, since)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &domain.Stats{
		Alerts:         alerts,
		TrackingPoints: points,
		Minutes:        req.Minutes,
	}, nil
}
