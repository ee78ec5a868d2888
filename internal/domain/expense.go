package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultExpenseCategory is used when an expense names no category.
const DefaultExpenseCategory = "Uncategorized"

// ExpenseCategory groups expenses. Names are unique per user, case-insensitively.
type ExpenseCategory struct {
	ID        int64
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Expense is money spent by the business.
type Expense struct {
	ID           int64
	UserID       uuid.UUID
	CategoryID   int64
	Amount       decimal.Decimal
	Description  string
	Date         time.Time
	CreatedAt    time.Time
	CategoryName string // computed field, not stored in DB
}
