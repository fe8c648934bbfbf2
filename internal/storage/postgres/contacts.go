package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sea/internal/domain"
	"sea/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewContactRepo(pool *pgxpool.Pool, logger *slog.Logger) *ContactRepo {
	return &ContactRepo{pool: pool, logger: logger}
}

func (p *ContactRepo) Insert(ctx context.Context, c *domain.Contact) error {
	const op = "postgres.Contact.Insert"

	if c == nil || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%s: %w", op, e.ErrNameRequired)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO contacts (name, email, phone, created_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		RETURNING id
	`

	if err := p.pool.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.CreatedAt).Scan(&c.ID); err != nil {
		p.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

// List returns contacts newest first.
func (p *ContactRepo) List(ctx context.Context) ([]domain.Contact, error) {
	const op = "postgres.Contact.List"

	const query = `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
		FROM contacts
		ORDER BY id DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return contacts, nil
}
