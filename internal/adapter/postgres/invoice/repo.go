// Package invoice implements the Invoice and Revenue repository using PostgreSQL.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	postgres "github.com/hassan3301/dailycrm/internal/adapter/postgres"
	"github.com/hassan3301/dailycrm/internal/domain"
)

// Repo provides invoice and revenue persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new invoice repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID          int64      `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	ContactID   int64      `db:"contact_id"`
	IssueDate   time.Time  `db:"issue_date"`
	DueDate     time.Time  `db:"due_date"`
	TotalAmount string     `db:"total_amount"`
	Status      string     `db:"status"`
	Notes       string     `db:"notes"`
	PaidAt      *time.Time `db:"paid_at"`
	CreatedAt   time.Time  `db:"created_at"`
	ContactName string     `db:"contact_name"`
}

func (r row) toDomain() (domain.Invoice, error) {
	amount, err := decimal.NewFromString(r.TotalAmount)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("invoice %d: parse total_amount %q: %w", r.ID, r.TotalAmount, err)
	}
	return domain.Invoice{
		ID:          r.ID,
		UserID:      r.UserID,
		ContactID:   r.ContactID,
		IssueDate:   r.IssueDate,
		DueDate:     r.DueDate,
		TotalAmount: amount,
		Status:      domain.InvoiceStatus(r.Status),
		Notes:       r.Notes,
		PaidAt:      r.PaidAt,
		CreatedAt:   r.CreatedAt,
		ContactName: r.ContactName,
	}, nil
}

func toDomainList(rows []row) ([]domain.Invoice, error) {
	out := make([]domain.Invoice, len(rows))
	for i, r := range rows {
		inv, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = inv
	}
	return out, nil
}

// selectInvoices selects invoices joined with the owning contact's name.
func selectInvoices(userID uuid.UUID) sq.SelectBuilder {
	return postgres.Builder.Select(
		"i.id", "i.user_id", "i.contact_id", "i.issue_date", "i.due_date",
		"i.total_amount::text AS total_amount", "i.status", "i.notes", "i.paid_at", "i.created_at",
		"c.name AS contact_name",
	).
		From("invoices i").
		Join("contacts c ON c.id = i.contact_id").
		Where(sq.Eq{"i.user_id": userID})
}

const returningInvoice = `RETURNING id, user_id, contact_id, issue_date, due_date, total_amount::text AS total_amount, status, notes, paid_at, created_at,
	(SELECT name FROM contacts WHERE contacts.id = invoices.contact_id) AS contact_name`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an invoice by primary key.
// Returns domain.ErrNotFound if it does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Invoice, error) {
	query, args, err := selectInvoices(userID).Where(sq.Eq{"i.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "invoice", id)
	}

	inv, err := got.toDomain()
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// List returns all invoices of the user in creation order.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error) {
	return r.list(ctx, selectInvoices(userID).OrderBy("i.id ASC"))
}

// ListByContact returns the contact's invoices, most recent due date first.
func (r *Repo) ListByContact(ctx context.Context, userID uuid.UUID, contactID int64) ([]domain.Invoice, error) {
	return r.list(ctx, selectInvoices(userID).
		Where(sq.Eq{"i.contact_id": contactID}).
		OrderBy("i.due_date DESC", "i.id DESC"))
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.Invoice, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	return toDomainList(rows)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new unpaid invoice. A zero IssueDate lets the database
// default it to the current date.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, inv *domain.Invoice) (*domain.Invoice, error) {
	cols := []string{"user_id", "contact_id", "due_date", "total_amount", "status", "notes"}
	vals := []any{userID, inv.ContactID, inv.DueDate, inv.TotalAmount.StringFixed(2), string(domain.InvoiceStatusUnpaid), inv.Notes}
	if !inv.IssueDate.IsZero() {
		cols = append(cols, "issue_date")
		vals = append(vals, inv.IssueDate)
	}

	query, args, err := postgres.Builder.Insert("invoices").
		Columns(cols...).
		Values(vals...).
		Suffix(returningInvoice).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "invoice", "new")
	}

	created, err := got.toDomain()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// MarkPaid flips an unpaid invoice to paid. It returns domain.ErrConflict
// when the invoice is already paid and domain.ErrNotFound when it does not
// exist or belongs to another user.
func (r *Repo) MarkPaid(ctx context.Context, userID uuid.UUID, id int64, paidAt time.Time) (*domain.Invoice, error) {
	query, args, err := postgres.Builder.Update("invoices").
		Set("status", string(domain.InvoiceStatusPaid)).
		Set("paid_at", paidAt).
		Where(sq.Eq{"user_id": userID, "id": id, "status": string(domain.InvoiceStatusUnpaid)}).
		Suffix(returningInvoice).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got row
	err = pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...)
	if err == nil {
		inv, convErr := got.toDomain()
		if convErr != nil {
			return nil, convErr
		}
		return &inv, nil
	}

	mapped := postgres.MapError(err, "invoice", id)
	if !errors.Is(mapped, domain.ErrNotFound) {
		return nil, mapped
	}

	// Nothing updated: tell a missing invoice apart from a paid one.
	if _, getErr := r.GetByID(ctx, userID, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("invoice %d: already paid: %w", id, domain.ErrConflict)
}

// CreateRevenue records revenue for a paid invoice. The unique index on
// revenues.invoice_id turns a second insert into domain.ErrAlreadyExists.
// A zero Date lets the database default it to the current date.
func (r *Repo) CreateRevenue(ctx context.Context, userID uuid.UUID, rev *domain.Revenue) (*domain.Revenue, error) {
	cols := []string{"user_id", "invoice_id", "amount"}
	vals := []any{userID, rev.InvoiceID, rev.Amount.StringFixed(2)}
	if !rev.Date.IsZero() {
		cols = append(cols, "date")
		vals = append(vals, rev.Date)
	}

	query, args, err := postgres.Builder.Insert("revenues").
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id, user_id, invoice_id, amount::text AS amount, date, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var got struct {
		ID        int64     `db:"id"`
		UserID    uuid.UUID `db:"user_id"`
		InvoiceID int64     `db:"invoice_id"`
		Amount    string    `db:"amount"`
		Date      time.Time `db:"date"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &got, query, args...); err != nil {
		return nil, postgres.MapError(err, "revenue for invoice", rev.InvoiceID)
	}

	amount, err := decimal.NewFromString(got.Amount)
	if err != nil {
		return nil, fmt.Errorf("revenue %d: parse amount: %w", got.ID, err)
	}

	return &domain.Revenue{
		ID:        got.ID,
		UserID:    got.UserID,
		InvoiceID: got.InvoiceID,
		Amount:    amount,
		Date:      got.Date,
		CreatedAt: got.CreatedAt,
	}, nil
}
