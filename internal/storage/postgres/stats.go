package postgres

import (
	"context"
	"log/slog"
	"time"

	"sea/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStatsRepo(pool *pgxpool.Pool, logger *slog.Logger) *StatsRepo {
	return &StatsRepo{pool: pool, logger: logger}
}

func (s *StatsRepo) CountAlertsSince(ctx context.Context, since time.Time) (int64, error) {
	const op = "postgres.Stats.CountAlertsSince"
	return s.count(ctx, op, `SELECT COUNT(*) FROM alerts WHERE timestamp >= $1`, since)
}

func (s *StatsRepo) CountTrackingSince(ctx context.Context, since time.Time) (int64, error) {
	const op = "postgres.Stats.CountTrackingSince"
	return s.count(ctx, op, `SELECT COUNT(*) FROM tracking WHERE timestamp >= $1`, since)
}

func (s *StatsRepo) count(ctx context.Context, op, query string, since time.Time) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, query, since.UTC()).Scan(&n); err != nil {
		s.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	return n, nil
}
