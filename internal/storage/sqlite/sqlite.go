// Package sqlite stores alerts, contacts and tracking points in a single
// SQLite file using the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"sea/pkg/e"

	_ "modernc.org/sqlite"
)

// Fixed-width UTC layout so that text comparison orders timestamps.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTS(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	latitude TEXT NOT NULL,
	longitude TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tracking (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	latitude TEXT NOT NULL,
	longitude TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT,
	phone TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS alerts_timestamp_idx ON alerts (timestamp);
CREATE INDEX IF NOT EXISTS tracking_timestamp_idx ON tracking (timestamp);
`

type Store struct {
	db       *sql.DB
	logger   *slog.Logger
	Alert    *AlertRepo
	Contact  *ContactRepo
	Tracking *TrackingRepo
	Stat     *StatsRepo
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	const op = "sqlite.Open"

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		logger.Warn("could not set WAL mode", slog.Any("error", err))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, e.WrapError(ctx, op, err)
	}

	logger.Info("SQLite store ready", slog.String("path", path))

	return &Store{
		db:       db,
		logger:   logger,
		Alert:    &AlertRepo{db: db, logger: logger},
		Contact:  &ContactRepo{db: db, logger: logger},
		Tracking: &TrackingRepo{db: db, logger: logger},
		Stat:     &StatsRepo{db: db, logger: logger},
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return e.WrapError(ctx, "sqlite.Ping", err)
	}
	if _, err := s.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return e.WrapError(ctx, "sqlite.Ping", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
