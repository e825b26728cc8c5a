package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/muralia/muralia/internal/domain"
)

// accountRepo implements domain.AccountRepository using SQLite.
type accountRepo struct {
	db *sql.DB
}

func (r *accountRepo) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (email, username, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.Email, account.Username, account.PasswordHash,
		account.FirstName, account.LastName, now, now,
	)
	if err != nil {
		if isUniqueViolation(err, "accounts.email") {
			return domain.ErrDuplicateEmail
		}
		if isUniqueViolation(err, "accounts.username") {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("insert account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.get(ctx,
		`SELECT id, email, username, password_hash, first_name, last_name, created_at, updated_at
		 FROM accounts WHERE id = ?`, id)
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.get(ctx,
		`SELECT id, email, username, password_hash, first_name, last_name, created_at, updated_at
		 FROM accounts WHERE email = ?`, email)
}

func (r *accountRepo) get(ctx context.Context, query string, arg any) (*domain.Account, error) {
	account := &domain.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Email, &account.Username, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return account, nil
}

// isUniqueViolation checks whether err is a SQLite unique constraint
// violation on the given column. modernc.org/sqlite exposes constraint
// details only through the error text.
func isUniqueViolation(err error, column string) bool {
	return err != nil &&
		strings.Contains(err.Error(), "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), column)
}
