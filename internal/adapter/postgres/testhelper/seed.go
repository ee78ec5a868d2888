package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassan3301/dailycrm/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a tenant. Every test seeds its own user, so tests sharing
// the container never see each other's rows.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	user := domain.User{
		ID:    uuid.New(),
		Email: "testuser-" + suffix + "@example.com",
		Name:  "Test User " + suffix,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (id, email, name) VALUES ($1, $2, $3) RETURNING created_at`,
		user.ID, user.Email, user.Name,
	).Scan(&user.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return user
}

// SeedContact inserts a lead contact with the given name and email.
func SeedContact(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, name, email string) domain.Contact {
	t.Helper()

	c := domain.Contact{
		UserID: userID,
		Name:   name,
		Email:  email,
		Status: domain.ContactStatusLead,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO contacts (user_id, name, email) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		userID, name, email,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedContact: %v", err)
	}

	return c
}

// CountRows returns the number of rows the user owns in table.
// table must be a trusted identifier.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string, userID uuid.UUID) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM `+table+` WHERE user_id = $1`, userID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("testhelper: CountRows(%s): %v", table, err)
	}
	return n
}
