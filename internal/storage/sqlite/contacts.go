package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sea/internal/domain"
	"sea/pkg/e"
)

type ContactRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *ContactRepo) Insert(ctx context.Context, c *domain.Contact) error {
	const op = "sqlite.Contact.Insert"

	if c == nil || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%s: %w", op, e.ErrNameRequired)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (name, email, phone, created_at) VALUES (?, ?, ?, ?)`,
		c.Name, nullable(c.Email), nullable(c.Phone), formatTS(c.CreatedAt),
	)
	if err != nil {
		r.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (r *ContactRepo) List(ctx context.Context) ([]domain.Contact, error) {
	const op = "sqlite.Contact.List"

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at FROM contacts ORDER BY id DESC`)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var (
			c  domain.Contact
			ts string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &ts); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		if c.CreatedAt, err = parseTS(ts); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return contacts, nil
}
