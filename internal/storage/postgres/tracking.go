package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sea/internal/domain"
	"sea/pkg/e"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrackingRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewTrackingRepo(pool *pgxpool.Pool, logger *slog.Logger) *TrackingRepo {
	return &TrackingRepo{pool: pool, logger: logger}
}

func (p *TrackingRepo) Insert(ctx context.Context, pt *domain.TrackingPoint) error {
	const op = "postgres.Tracking.Insert"

	if pt.Timestamp.IsZero() {
		pt.Timestamp = time.Now().UTC()
	}

	const query = `
		INSERT INTO tracking (latitude, longitude, timestamp)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := p.pool.QueryRow(ctx, query, pt.Latitude, pt.Longitude, pt.Timestamp).Scan(&pt.ID); err != nil {
		p.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

// Latest returns nil when nothing was tracked yet.
func (p *TrackingRepo) Latest(ctx context.Context) (*domain.TrackingPoint, error) {
	const op = "postgres.Tracking.Latest"

	const query = `
		SELECT id, latitude, longitude, timestamp
		FROM tracking
		ORDER BY id DESC
		LIMIT 1
	`

	var pt domain.TrackingPoint
	err := p.pool.QueryRow(ctx, query).Scan(&pt.ID, &pt.Latitude, &pt.Longitude, &pt.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	pt.Timestamp = pt.Timestamp.UTC()
	return &pt, nil
}

func (p *TrackingRepo) History(ctx context.Context) ([]domain.TrackingPoint, error) {
	const op = "postgres.Tracking.History"

	const query = `
		SELECT id, latitude, longitude, timestamp
		FROM tracking
		ORDER BY id DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	points := make([]domain.TrackingPoint, 0)
	for rows.Next() {
		var pt domain.TrackingPoint
		if err := rows.Scan(&pt.ID, &pt.Latitude, &pt.Longitude, &pt.Timestamp); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		pt.Timestamp = pt.Timestamp.UTC()
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return points, nil
}
