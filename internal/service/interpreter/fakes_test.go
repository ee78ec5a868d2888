package interpreter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
)

// memDB is an in-memory stand-in for the postgres repositories. RunInTx
// snapshots it and restores the snapshot when fn fails.
type memDB struct {
	mu sync.Mutex

	contacts     []domain.Contact
	invoices     []domain.Invoice
	revenues     []domain.Revenue
	interactions []domain.Interaction
	events       []domain.Event
	categories   []domain.ExpenseCategory
	expenses     []domain.Expense
	nextID       int64

	// fail makes the named method ("Contacts.List") return the error.
	fail map[string]error
	// panicOn makes the named method panic.
	panicOn string
	txRuns  int
}

func newMemDB() *memDB {
	return &memDB{fail: map[string]error{}}
}

func (db *memDB) check(method string) error {
	if db.panicOn == method {
		panic("boom in " + method)
	}
	return db.fail[method]
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type memSnapshot struct {
	contacts     []domain.Contact
	invoices     []domain.Invoice
	revenues     []domain.Revenue
	interactions []domain.Interaction
	events       []domain.Event
	categories   []domain.ExpenseCategory
	expenses     []domain.Expense
	nextID       int64
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memSnapshot{
		contacts:     append([]domain.Contact(nil), db.contacts...),
		invoices:     append([]domain.Invoice(nil), db.invoices...),
		revenues:     append([]domain.Revenue(nil), db.revenues...),
		interactions: append([]domain.Interaction(nil), db.interactions...),
		events:       append([]domain.Event(nil), db.events...),
		categories:   append([]domain.ExpenseCategory(nil), db.categories...),
		expenses:     append([]domain.Expense(nil), db.expenses...),
		nextID:       db.nextID,
	}
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.contacts = s.contacts
	db.invoices = s.invoices
	db.revenues = s.revenues
	db.interactions = s.interactions
	db.events = s.events
	db.categories = s.categories
	db.expenses = s.expenses
	db.nextID = s.nextID
}

func (db *memDB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.txRuns++
	snap := db.snapshot()
	if err := fn(ctx); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

func (db *memDB) contactName(id int64) string {
	for _, c := range db.contacts {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// seedContact inserts a contact directly.
func (db *memDB) seedContact(userID uuid.UUID, name, email string) domain.Contact {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := domain.Contact{ID: db.id(), UserID: userID, Name: name, Email: email, Status: domain.ContactStatusLead}
	db.contacts = append(db.contacts, c)
	return c
}

// seedInvoice inserts an unpaid invoice directly.
func (db *memDB) seedInvoice(userID uuid.UUID, contactID int64, total string, due time.Time) domain.Invoice {
	db.mu.Lock()
	defer db.mu.Unlock()
	inv := domain.Invoice{
		ID: db.id(), UserID: userID, ContactID: contactID,
		DueDate: due, TotalAmount: mustDecimal(total),
		Status: domain.InvoiceStatusUnpaid, ContactName: db.contactName(contactID),
	}
	db.invoices = append(db.invoices, inv)
	return inv
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

type fakeContacts struct{ db *memDB }

func (f fakeContacts) GetByID(_ context.Context, userID uuid.UUID, id int64) (*domain.Contact, error) {
	if err := f.db.check("Contacts.GetByID"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.contacts {
		if c.UserID == userID && c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("contact %d: %w", id, domain.ErrNotFound)
}

func (f fakeContacts) List(_ context.Context, userID uuid.UUID) ([]domain.Contact, error) {
	if err := f.db.check("Contacts.List"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Contact
	for _, c := range f.db.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeContacts) FindByName(_ context.Context, userID uuid.UUID, fragment string, limit int) ([]domain.Contact, error) {
	if err := f.db.check("Contacts.FindByName"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Contact
	for _, c := range f.db.contacts {
		if c.UserID == userID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(fragment)) {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeContacts) FindByEmail(_ context.Context, userID uuid.UUID, email string) (*domain.Contact, error) {
	if err := f.db.check("Contacts.FindByEmail"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.contacts {
		if c.UserID == userID && c.Email != "" && strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("contact %s: %w", email, domain.ErrNotFound)
}

func (f fakeContacts) Create(_ context.Context, userID uuid.UUID, c *domain.Contact) (*domain.Contact, error) {
	if err := f.db.check("Contacts.Create"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	created := *c
	created.ID = f.db.id()
	created.UserID = userID
	f.db.contacts = append(f.db.contacts, created)
	return &created, nil
}

func (f fakeContacts) Update(_ context.Context, userID uuid.UUID, id int64, upd domain.ContactUpdate) (*domain.Contact, error) {
	if err := f.db.check("Contacts.Update"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for i := range f.db.contacts {
		c := &f.db.contacts[i]
		if c.UserID != userID || c.ID != id {
			continue
		}
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Email != nil {
			c.Email = *upd.Email
		}
		if upd.Phone != nil {
			c.Phone = *upd.Phone
		}
		if upd.Company != nil {
			c.Company = *upd.Company
		}
		if upd.Notes != nil {
			c.Notes = *upd.Notes
		}
		if upd.Status != nil {
			c.Status = *upd.Status
		}
		out := *c
		return &out, nil
	}
	return nil, fmt.Errorf("contact %d: %w", id, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Invoices
// ---------------------------------------------------------------------------

type fakeInvoices struct{ db *memDB }

func (f fakeInvoices) GetByID(_ context.Context, userID uuid.UUID, id int64) (*domain.Invoice, error) {
	if err := f.db.check("Invoices.GetByID"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, inv := range f.db.invoices {
		if inv.UserID == userID && inv.ID == id {
			return &inv, nil
		}
	}
	return nil, fmt.Errorf("invoice %d: %w", id, domain.ErrNotFound)
}

func (f fakeInvoices) List(_ context.Context, userID uuid.UUID) ([]domain.Invoice, error) {
	if err := f.db.check("Invoices.List"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Invoice
	for _, inv := range f.db.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f fakeInvoices) ListByContact(_ context.Context, userID uuid.UUID, contactID int64) ([]domain.Invoice, error) {
	if err := f.db.check("Invoices.ListByContact"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Invoice
	for _, inv := range f.db.invoices {
		if inv.UserID == userID && inv.ContactID == contactID {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.After(out[j].DueDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f fakeInvoices) Create(_ context.Context, userID uuid.UUID, inv *domain.Invoice) (*domain.Invoice, error) {
	if err := f.db.check("Invoices.Create"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	created := *inv
	created.ID = f.db.id()
	created.UserID = userID
	created.ContactName = f.db.contactName(inv.ContactID)
	f.db.invoices = append(f.db.invoices, created)
	return &created, nil
}

func (f fakeInvoices) MarkPaid(_ context.Context, userID uuid.UUID, id int64, paidAt time.Time) (*domain.Invoice, error) {
	if err := f.db.check("Invoices.MarkPaid"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for i := range f.db.invoices {
		inv := &f.db.invoices[i]
		if inv.UserID != userID || inv.ID != id {
			continue
		}
		if inv.IsPaid() {
			return nil, fmt.Errorf("invoice %d: already paid: %w", id, domain.ErrConflict)
		}
		inv.Status = domain.InvoiceStatusPaid
		inv.PaidAt = &paidAt
		out := *inv
		return &out, nil
	}
	return nil, fmt.Errorf("invoice %d: %w", id, domain.ErrNotFound)
}

func (f fakeInvoices) CreateRevenue(_ context.Context, userID uuid.UUID, rev *domain.Revenue) (*domain.Revenue, error) {
	if err := f.db.check("Invoices.CreateRevenue"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.revenues {
		if r.InvoiceID == rev.InvoiceID {
			return nil, fmt.Errorf("revenue for invoice %d: %w", rev.InvoiceID, domain.ErrAlreadyExists)
		}
	}
	created := *rev
	created.ID = f.db.id()
	created.UserID = userID
	f.db.revenues = append(f.db.revenues, created)
	return &created, nil
}

// ---------------------------------------------------------------------------
// Interactions, events, expenses
// ---------------------------------------------------------------------------

type fakeInteractions struct{ db *memDB }

func (f fakeInteractions) Create(_ context.Context, userID uuid.UUID, in *domain.Interaction) (*domain.Interaction, error) {
	if err := f.db.check("Interactions.Create"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	created := *in
	created.ID = f.db.id()
	created.UserID = userID
	created.ContactName = f.db.contactName(in.ContactID)
	f.db.interactions = append(f.db.interactions, created)
	return &created, nil
}

type fakeEvents struct{ db *memDB }

func (f fakeEvents) Create(_ context.Context, userID uuid.UUID, e *domain.Event) (*domain.Event, error) {
	if err := f.db.check("Events.Create"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	created := *e
	created.ID = f.db.id()
	created.UserID = userID
	if e.ContactID != nil {
		created.ContactName = f.db.contactName(*e.ContactID)
	}
	f.db.events = append(f.db.events, created)
	return &created, nil
}

func (f fakeEvents) ListUpcoming(_ context.Context, userID uuid.UUID, from time.Time, limit int) ([]domain.Event, error) {
	if err := f.db.check("Events.ListUpcoming"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Event
	for _, e := range f.db.events {
		if e.UserID == userID && !e.StartsAt.Before(from) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeExpenses struct{ db *memDB }

func (f fakeExpenses) EnsureCategory(_ context.Context, userID uuid.UUID, name string) (*domain.ExpenseCategory, error) {
	if err := f.db.check("Expenses.EnsureCategory"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.categories {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	c := domain.ExpenseCategory{ID: f.db.id(), UserID: userID, Name: name}
	f.db.categories = append(f.db.categories, c)
	return &c, nil
}

func (f fakeExpenses) Create(_ context.Context, userID uuid.UUID, e *domain.Expense) (*domain.Expense, error) {
	if err := f.db.check("Expenses.Create"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	created := *e
	created.ID = f.db.id()
	created.UserID = userID
	for _, c := range f.db.categories {
		if c.ID == e.CategoryID {
			created.CategoryName = c.Name
		}
	}
	f.db.expenses = append(f.db.expenses, created)
	return &created, nil
}

func (f fakeExpenses) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]domain.Expense, error) {
	if err := f.db.check("Expenses.ListRecent"); err != nil {
		return nil, err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Expense
	for _, e := range f.db.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Links
// ---------------------------------------------------------------------------

type fakeLinks struct{}

func (fakeLinks) InvoicePDF(id int64) string {
	return fmt.Sprintf("https://crm.test/invoices/%d/pdf", id)
}
