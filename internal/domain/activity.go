package domain

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is a logged touchpoint with a contact (call, email, meeting...).
type Interaction struct {
	ID          int64
	UserID      uuid.UUID
	ContactID   int64
	Type        string
	Summary     string
	Date        time.Time
	CreatedAt   time.Time
	ContactName string // computed field, not stored in DB
}

// Event is a calendar entry, optionally tied to a contact.
type Event struct {
	ID          int64
	UserID      uuid.UUID
	ContactID   *int64
	Title       string
	StartsAt    time.Time
	Description string
	Location    string
	CreatedAt   time.Time
	ContactName string // computed field, not stored in DB
}
