package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"sea/pkg/e"
)

type StatsRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func (s *StatsRepo) CountAlertsSince(ctx context.Context, since time.Time) (int64, error) {
	return s.count(ctx, "sqlite.Stats.CountAlertsSince", `SELECT COUNT(*) FROM alerts WHERE timestamp >= ?`, since)
}

func (s *StatsRepo) CountTrackingSince(ctx context.Context, since time.Time) (int64, error) {
	return s.count(ctx, "sqlite.Stats.CountTrackingSince", `SELECT COUNT(*) FROM tracking WHERE timestamp >= ?`, since)
}

func (s *StatsRepo) count(ctx context.Context, op, query string, since time.Time) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query, formatTS(since)).Scan(&n); err != nil {
		s.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	return n, nil
}
