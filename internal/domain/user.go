package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the tenant every CRM record belongs to.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}
