// Package interaction implements the Interaction repository using PostgreSQL.
package interaction

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/hassan3301/dailycrm/internal/adapter/postgres"
	"github.com/hassan3301/dailycrm/internal/domain"
)

// Repo provides interaction persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new interaction repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID          int64     `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	ContactID   int64     `db:"contact_id"`
	Type        string    `db:"type"`
	Summary     string    `db:"summary"`
	Date        time.Time `db:"date"`
	CreatedAt   time.Time `db:"created_at"`
	ContactName string    `db:"contact_name"`
}

func (r row) toDomain() domain.Interaction {
	return domain.Interaction{
		ID:          r.ID,
		UserID:      r.UserID,
		ContactID:   r.ContactID,
		Type:        r.Type,
		Summary:     r.Summary,
		Date:        r.Date,
		CreatedAt:   r.CreatedAt,
		ContactName: r.ContactName,
	}
}

// Create logs an interaction with a contact.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, in *domain.Interaction) (*domain.Interaction, error) {
	query, args, err := postgres.Builder.Insert("interactions").
		Columns("user_id", "contact_id", "type", "summary", "date").
		Values(userID, in.ContactID, in.Type, in.Summary, in.Date).
		Suffix(`RETURNING id, user_id, contact_id, type, summary, date, created_at,
			(SELECT name FROM contacts WHERE contacts.id = interactions.contact_id) AS contact_name`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "interaction with contact", in.ContactID)
	}

	created := got.toDomain()
	return &created, nil
}

// ListRecent returns the user's latest interactions, newest first.
func (r *Repo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Interaction, error) {
	query, args, err := postgres.Builder.Select(
		"i.id", "i.user_id", "i.contact_id", "i.type", "i.summary", "i.date", "i.created_at",
		"c.name AS contact_name",
	).
		From("interactions i").
		Join("contacts c ON c.id = i.contact_id").
		Where(sq.Eq{"i.user_id": userID}).
		OrderBy("i.date DESC", "i.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	out := make([]domain.Interaction, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
