package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a person or company tracked in the CRM.
type Contact struct {
	ID        int64
	UserID    uuid.UUID
	Name      string
	Email     string
	Phone     string
	Company   string
	Notes     string
	Status    ContactStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactUpdate describes a partial update. Nil fields are left untouched.
type ContactUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
	Notes   *string
	Status  *ContactStatus
}

// IsEmpty reports whether the update would change nothing.
func (u ContactUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil &&
		u.Company == nil && u.Notes == nil && u.Status == nil
}
