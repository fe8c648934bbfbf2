package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"sea/internal/domain"
	"sea/pkg/e"
)

type AlertRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *AlertRepo) Insert(ctx context.Context, lat, lng string, ts time.Time) (int64, error) {
	const op = "sqlite.Alert.Insert"

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (latitude, longitude, timestamp) VALUES (?, ?, ?)`,
		lat, lng, formatTS(ts),
	)
	if err != nil {
		r.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, e.WrapError(ctx, op, err)
	}
	return id, nil
}

func (r *AlertRepo) List(ctx context.Context) ([]domain.Alert, error) {
	const op = "sqlite.Alert.List"

	rows, err := r.db.QueryContext(ctx, `SELECT id, latitude, longitude, timestamp FROM alerts ORDER BY id DESC`)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	alerts := make([]domain.Alert, 0)
	for rows.Next() {
		var (
			a  domain.Alert
			ts string
		)
		if err := rows.Scan(&a.ID, &a.Latitude, &a.Longitude, &ts); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		if a.Timestamp, err = parseTS(ts); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return alerts, nil
}
