package domain

import (
	"context"
	"time"
)

// Image holds metadata about a stored image. The raw bytes live in the
// FileStore under StorageKey; everything else is metadata. OwnerID is set
// at upload time and never changes.
type Image struct {
	ID            string // UUID assigned before the first write
	OwnerID       int64
	OwnerUsername string // resolved via join on reads, not stored
	URL           string
	Title         string
	Description   string
	FileName      string
	FileSize      int64
	MimeType      string
	StorageKey    string
	UploadedAt    time.Time
}

// ImagePage is a read-only view over one page of the latest images.
// Total is the full matching count irrespective of pagination.
type ImagePage struct {
	Images []Image
	Total  int
	Limit  int
	Offset int
}

// ImageRepository handles image metadata persistence.
type ImageRepository interface {
	Create(ctx context.Context, image *Image) error
	GetByID(ctx context.Context, id string) (*Image, error)
	// ListLatest returns images ordered by upload time descending, ties
	// broken by insertion order.
	ListLatest(ctx context.Context, limit, offset int) ([]Image, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// FileStore abstracts raw image byte storage. Both store implementations
// keep BLOBs next to the metadata; this interface allows swapping to
// filesystem or object storage later.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
