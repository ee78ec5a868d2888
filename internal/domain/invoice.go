package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a bill issued to exactly one contact.
type Invoice struct {
	ID          int64
	UserID      uuid.UUID
	ContactID   int64
	IssueDate   time.Time
	DueDate     time.Time
	TotalAmount decimal.Decimal
	Status      InvoiceStatus
	Notes       string
	PaidAt      *time.Time
	CreatedAt   time.Time
	ContactName string // computed field, not stored in DB
}

// IsPaid reports whether the invoice has been settled.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// Revenue is the ledger entry created when an invoice is paid.
type Revenue struct {
	ID        int64
	UserID    uuid.UUID
	InvoiceID int64
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
}
