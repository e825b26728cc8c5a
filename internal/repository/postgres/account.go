package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/muralia/muralia/internal/domain"
)

// accountRepo implements domain.AccountRepository using Postgres.
type accountRepo struct {
	pool *pgxpool.Pool
}

func (r *accountRepo) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (email, username, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		account.Email, account.Username, account.PasswordHash,
		account.FirstName, account.LastName, now, now,
	).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err, "email") {
			return domain.ErrDuplicateEmail
		}
		if isUniqueViolation(err, "username") {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("insert account: %w", err)
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.get(ctx,
		`SELECT id, email, username, password_hash, first_name, last_name, created_at, updated_at
		 FROM accounts WHERE id = $1`, id)
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.get(ctx,
		`SELECT id, email, username, password_hash, first_name, last_name, created_at, updated_at
		 FROM accounts WHERE email = $1`, email)
}

func (r *accountRepo) get(ctx context.Context, query string, arg any) (*domain.Account, error) {
	account := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID, &account.Email, &account.Username, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return account, nil
}

// isUniqueViolation checks for a Postgres unique_violation (23505) on a
// constraint whose name contains the given column.
func isUniqueViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		strings.Contains(pgErr.ConstraintName, column)
}
