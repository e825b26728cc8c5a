// Package postgres implements the durable store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/muralia/muralia/internal/domain"
)

// DB is the Postgres-backed implementation of domain.Store, suitable
// when multiple replicas need to share one database.
type DB struct {
	pool *pgxpool.Pool
}

// New opens a Postgres connection pool using the provided DSN.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &DB{pool: pool}, nil
}

// schema is applied idempotently on startup. The images.seq column
// preserves insertion order for tie-breaking within a timestamp.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
	id TEXT PRIMARY KEY,
	seq BIGSERIAL,
	owner_id BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	url TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	file_name TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_key TEXT NOT NULL UNIQUE,
	uploaded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_images_uploaded_at ON images (uploaded_at DESC);

CREATE TABLE IF NOT EXISTS file_blobs (
	storage_key TEXT PRIMARY KEY,
	data BYTEA NOT NULL
);
`

// Migrate creates the schema if it does not already exist.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (d *DB) Close() error {
	d.pool.Close()
	return nil
}

// Accounts returns the account repository.
func (d *DB) Accounts() domain.AccountRepository {
	return &accountRepo{pool: d.pool}
}

// Images returns the image metadata repository.
func (d *DB) Images() domain.ImageRepository {
	return &imageRepo{pool: d.pool}
}

// Files returns the blob file store.
func (d *DB) Files() domain.FileStore {
	return &fileStore{pool: d.pool}
}
