// Package event implements the calendar Event repository using PostgreSQL.
package event

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

// Repo provides event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new event repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID          int64     `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	ContactID   *int64    `db:"contact_id"`
	Title       string    `db:"title"`
	StartsAt    time.Time `db:"starts_at"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	CreatedAt   time.Time `db:"created_at"`
	ContactName *string   `db:"contact_name"`
}

func (r row) toDomain() domain.Event {
	e := domain.Event{
		ID:          r.ID,
		UserID:      r.UserID,
		ContactID:   r.ContactID,
		Title:       r.Title,
		StartsAt:    r.StartsAt,
		Description: r.Description,
		Location:    r.Location,
		CreatedAt:   r.CreatedAt,
	}
	if r.ContactName != nil {
		e.ContactName = *r.ContactName
	}
	return e
}

// Create inserts a calendar event. ContactID may be nil.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, e *domain.Event) (*domain.Event, error) {
	query, args, err := postgres.Builder.Insert("events").
		Columns("user_id", "contact_id", "title", "starts_at", "description", "location").
		Values(userID, e.ContactID, e.Title, e.StartsAt, e.Description, e.Location).
		Suffix(`RETURNING id, user_id, contact_id, title, starts_at, description, location, created_at,
			(SELECT name FROM contacts WHERE contacts.id = events.contact_id) AS contact_name`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "event", e.Title)
	}

	created := got.toDomain()
	return &created, nil
}

// ListUpcoming returns events starting at or after from, soonest first.
func (r *Repo) ListUpcoming(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]domain.Event, error) {
	query, args, err := postgres.Builder.Select(
		"e.id", "e.user_id", "e.contact_id", "e.title", "e.starts_at", "e.description", "e.location", "e.created_at",
		"c.name AS contact_name",
	).
		From("events e").
		LeftJoin("contacts c ON c.id = e.contact_id").
		Where(sq.Eq{"e.user_id": userID}).
		Where(sq.GtOrEq{"e.starts_at": from}).
		OrderBy("e.starts_at ASC", "e.id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}

	out := make([]domain.Event, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
