package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/muralia/muralia/internal/domain"
)

// fileStore implements domain.FileStore using Postgres bytea columns.
type fileStore struct {
	pool *pgxpool.Pool
}

func (s *fileStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO file_blobs (storage_key, data) VALUES ($1, $2)",
		key, data,
	)
	if err != nil {
		return fmt.Errorf("save file blob: %w", err)
	}
	return nil
}

func (s *fileStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		"SELECT data FROM file_blobs WHERE storage_key = $1", key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get file blob: %w", err)
	}
	return data, nil
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM file_blobs WHERE storage_key = $1", key,
	)
	if err != nil {
		return fmt.Errorf("delete file blob: %w", err)
	}
	return nil
}
