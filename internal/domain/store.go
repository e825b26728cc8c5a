package domain

import "context"

// Store bundles the repositories backed by a single durable database.
// Each implementation (SQLite, Postgres) owns its own schema management,
// ensuring the entire backend is swappable at startup.
type Store interface {
	Migrate(ctx context.Context) error
	Close() error

	Accounts() AccountRepository
	Images() ImageRepository
	Files() FileStore
}
