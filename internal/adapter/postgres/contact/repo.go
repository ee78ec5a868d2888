// Package contact implements the Contact repository using PostgreSQL.
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/hassan3301/dailycrm/internal/adapter/postgres"
	"github.com/hassan3301/dailycrm/internal/domain"
)

var columns = []string{"id", "user_id", "name", "email", "phone", "company", "notes", "status", "created_at", "updated_at"}

// Repo provides contact persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new contact repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID        int64     `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Company   string    `db:"company"`
	Notes     string    `db:"notes"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r row) toDomain() domain.Contact {
	return domain.Contact{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Company:   r.Company,
		Notes:     r.Notes,
		Status:    domain.ContactStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toDomainList(rows []row) []domain.Contact {
	out := make([]domain.Contact, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a contact by primary key.
// Returns domain.ErrNotFound if it does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Contact, error) {
	query, args, err := postgres.Builder.Select(columns...).From("contacts").
		Where(sq.Eq{"user_id": userID, "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "contact", id)
	}

	c := got.toDomain()
	return &c, nil
}

// List returns all contacts of the user in creation order.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) ([]domain.Contact, error) {
	query, args, err := postgres.Builder.Select(columns...).From("contacts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	return toDomainList(rows), nil
}

// FindByName returns up to limit contacts whose name contains fragment,
// case-insensitively, lowest id first. An empty fragment matches nothing.
func (r *Repo) FindByName(ctx context.Context, userID uuid.UUID, fragment string, limit int) ([]domain.Contact, error) {
	if fragment == "" {
		return nil, nil
	}

	query, args, err := postgres.Builder.Select(columns...).From("contacts").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.ILike{"name": postgres.ContainsPattern(fragment)}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find contacts by name: %w", err)
	}

	return toDomainList(rows), nil
}

// FindByEmail returns the first contact whose email equals email,
// case-insensitively. Returns domain.ErrNotFound when there is none.
func (r *Repo) FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*domain.Contact, error) {
	query, args, err := postgres.Builder.Select(columns...).From("contacts").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Expr("lower(email) = lower(?)", email)).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "contact", email)
	}

	c := got.toDomain()
	return &c, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new contact. An empty status becomes lead.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, c *domain.Contact) (*domain.Contact, error) {
	status := c.Status
	if status == "" {
		status = domain.ContactStatusLead
	}

	query, args, err := postgres.Builder.Insert("contacts").
		Columns("user_id", "name", "email", "phone", "company", "notes", "status").
		Values(userID, c.Name, c.Email, c.Phone, c.Company, c.Notes, string(status)).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "contact", c.Name)
	}

	created := got.toDomain()
	return &created, nil
}

// Update applies the non-nil fields of upd and returns the updated contact.
// Returns domain.ErrNotFound if the contact does not exist or belongs to another user.
func (r *Repo) Update(ctx context.Context, userID uuid.UUID, id int64, upd domain.ContactUpdate) (*domain.Contact, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, userID, id)
	}

	set := map[string]any{"updated_at": sq.Expr("now()")}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Company != nil {
		set["company"] = *upd.Company
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}

	query, args, err := postgres.Builder.Update("contacts").
		SetMap(set).
		Where(sq.Eq{"user_id": userID, "id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "contact", id)
	}

	updated := got.toDomain()
	return &updated, nil
}
