package postgres

import (
	"context"
	"log/slog"
	"time"

	"sea/internal/domain"
	"sea/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AlertRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAlertRepo(pool *pgxpool.Pool, logger *slog.Logger) *AlertRepo {
	return &AlertRepo{pool: pool, logger: logger}
}

func (p *AlertRepo) Insert(ctx context.Context, lat, lng string, ts time.Time) (int64, error) {
	const op = "postgres.Alert.Insert"

	const query = `
		INSERT INTO alerts (latitude, longitude, timestamp)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	if err := p.pool.QueryRow(ctx, query, lat, lng, ts.UTC()).Scan(&id); err != nil {
		p.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	return id, nil
}

func (p *AlertRepo) List(ctx context.Context) ([]domain.Alert, error) {
	const op = "postgres.Alert.List"

	const query = `
		SELECT id, latitude, longitude, timestamp
		FROM alerts
		ORDER BY id DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	alerts := make([]domain.Alert, 0)
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.Latitude, &a.Longitude, &a.Timestamp); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		a.Timestamp = a.Timestamp.UTC()
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return alerts, nil
}
