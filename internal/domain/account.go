package domain

import (
	"context"
	"time"
)

// Account represents a registered user of the application. Email and
// Username are unique across all accounts; uniqueness is enforced by the
// store at write time.
type Account struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// Create inserts a new account. Returns ErrDuplicateEmail or
	// ErrDuplicateUsername when a unique constraint is violated.
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
