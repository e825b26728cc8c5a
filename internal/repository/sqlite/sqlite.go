// Package sqlite implements the durable store on SQLite via database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/muralia/muralia/internal/domain"
	"github.com/muralia/muralia/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB is the SQLite-backed implementation of domain.Store.
type DB struct {
	sqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for
// use. It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite serializes writes anyway; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{sqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.sqlDB)
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.sqlDB.Close()
}

// Accounts returns the account repository.
func (d *DB) Accounts() domain.AccountRepository {
	return &accountRepo{db: d.sqlDB}
}

// Images returns the image metadata repository.
func (d *DB) Images() domain.ImageRepository {
	return &imageRepo{db: d.sqlDB}
}

// Files returns the blob file store.
func (d *DB) Files() domain.FileStore {
	return &fileStore{db: d.sqlDB}
}
