package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/muralia/muralia/internal/domain"
)

// imageRepo implements domain.ImageRepository using Postgres.
type imageRepo struct {
	pool *pgxpool.Pool
}

const imageColumns = `i.id, i.owner_id, a.username, i.url, i.title, i.description,
	 i.file_name, i.file_size, i.mime_type, i.storage_key, i.uploaded_at`

func (r *imageRepo) Create(ctx context.Context, image *domain.Image) error {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO images (id, owner_id, url, title, description, file_name, file_size, mime_type, storage_key, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		image.ID, image.OwnerID, image.URL, image.Title, image.Description,
		image.FileName, image.FileSize, image.MimeType, image.StorageKey, now,
	)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	image.UploadedAt = now
	return nil
}

func (r *imageRepo) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	image := &domain.Image{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+imageColumns+`
		 FROM images i JOIN accounts a ON i.owner_id = a.id
		 WHERE i.id = $1`, id,
	).Scan(&image.ID, &image.OwnerID, &image.OwnerUsername, &image.URL,
		&image.Title, &image.Description, &image.FileName, &image.FileSize,
		&image.MimeType, &image.StorageKey, &image.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query image by id: %w", err)
	}
	return image, nil
}

func (r *imageRepo) ListLatest(ctx context.Context, limit, offset int) ([]domain.Image, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+imageColumns+`
		 FROM images i JOIN accounts a ON i.owner_id = a.id
		 ORDER BY i.uploaded_at DESC, i.seq DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		var image domain.Image
		if err := rows.Scan(&image.ID, &image.OwnerID, &image.OwnerUsername, &image.URL,
			&image.Title, &image.Description, &image.FileName, &image.FileSize,
			&image.MimeType, &image.StorageKey, &image.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *imageRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM images").Scan(&count); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return count, nil
}

func (r *imageRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM images WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
