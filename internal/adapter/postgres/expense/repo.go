// Package expense implements the Expense and ExpenseCategory repository using PostgreSQL.
package expense

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	postgres "github.com/hassan3301/dailycrm/internal/adapter/postgres"
	"github.com/hassan3301/dailycrm/internal/domain"
)

// Repo provides expense persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new expense repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID           int64     `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	CategoryID   int64     `db:"category_id"`
	Amount       string    `db:"amount"`
	Description  string    `db:"description"`
	Date         time.Time `db:"date"`
	CreatedAt    time.Time `db:"created_at"`
	CategoryName string    `db:"category_name"`
}

func (r row) toDomain() (domain.Expense, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("expense %d: parse amount %q: %w", r.ID, r.Amount, err)
	}
	return domain.Expense{
		ID:           r.ID,
		UserID:       r.UserID,
		CategoryID:   r.CategoryID,
		Amount:       amount,
		Description:  r.Description,
		Date:         r.Date,
		CreatedAt:    r.CreatedAt,
		CategoryName: r.CategoryName,
	}, nil
}

// EnsureCategory returns the user's category named name (case-insensitive),
// creating it when missing. The stored spelling of an existing category wins.
func (r *Repo) EnsureCategory(ctx context.Context, userID uuid.UUID, name string) (*domain.ExpenseCategory, error) {
	query, args, err := postgres.Builder.Insert("expense_categories").
		Columns("user_id", "name").
		Values(userID, name).
		Suffix(`ON CONFLICT (user_id, lower(name)) DO UPDATE SET name = expense_categories.name
			RETURNING id, user_id, name, created_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got struct {
		ID        int64     `db:"id"`
		UserID    uuid.UUID `db:"user_id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "expense category", name)
	}

	return &domain.ExpenseCategory{
		ID:        got.ID,
		UserID:    got.UserID,
		Name:      got.Name,
		CreatedAt: got.CreatedAt,
	}, nil
}

// Create inserts an expense under an existing category.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, e *domain.Expense) (*domain.Expense, error) {
	query, args, err := postgres.Builder.Insert("expenses").
		Columns("user_id", "category_id", "amount", "description", "date").
		Values(userID, e.CategoryID, e.Amount.StringFixed(2), e.Description, e.Date).
		Suffix(`RETURNING id, user_id, category_id, amount::text AS amount, description, date, created_at,
			(SELECT name FROM expense_categories WHERE expense_categories.id = expenses.category_id) AS category_name`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "expense in category", e.CategoryID)
	}

	created, err := got.toDomain()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListRecent returns the user's latest expenses, newest date first.
func (r *Repo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Expense, error) {
	query, args, err := postgres.Builder.Select(
		"e.id", "e.user_id", "e.category_id", "e.amount::text AS amount", "e.description", "e.date", "e.created_at",
		"c.name AS category_name",
	).
		From("expenses e").
		Join("expense_categories c ON c.id = e.category_id").
		Where(sq.Eq{"e.user_id": userID}).
		OrderBy("e.date DESC", "e.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	out := make([]domain.Expense, len(rows))
	for i, rw := range rows {
		e, err := rw.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
