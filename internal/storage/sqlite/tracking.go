package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"sea/internal/domain"
	"sea/pkg/e"
)

type TrackingRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *TrackingRepo) Insert(ctx context.Context, pt *domain.TrackingPoint) error {
	const op = "sqlite.Tracking.Insert"

	if pt.Timestamp.IsZero() {
		pt.Timestamp = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tracking (latitude, longitude, timestamp) VALUES (?, ?, ?)`,
		pt.Latitude, pt.Longitude, formatTS(pt.Timestamp),
	)
	if err != nil {
		r.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if pt.ID, err = res.LastInsertId(); err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (r *TrackingRepo) Latest(ctx context.Context) (*domain.TrackingPoint, error) {
	const op = "sqlite.Tracking.Latest"

	var (
		pt domain.TrackingPoint
		ts string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, latitude, longitude, timestamp FROM tracking ORDER BY id DESC LIMIT 1`,
	).Scan(&pt.ID, &pt.Latitude, &pt.Longitude, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	if pt.Timestamp, err = parseTS(ts); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return &pt, nil
}

func (r *TrackingRepo) History(ctx context.Context) ([]domain.TrackingPoint, error) {
	const op = "sqlite.Tracking.History"

	rows, err := r.db.QueryContext(ctx, `SELECT id, latitude, longitude, timestamp FROM tracking ORDER BY id DESC`)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	points := make([]domain.TrackingPoint, 0)
	for rows.Next() {
		var (
			pt domain.TrackingPoint
			ts string
		)
		if err := rows.Scan(&pt.ID, &pt.Latitude, &pt.Longitude, &ts); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		if pt.Timestamp, err = parseTS(ts); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return points, nil
}
