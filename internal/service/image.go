package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/muralia/muralia/internal/domain"
)

// ImageService orchestrates image uploads, retrieval, paginated listing,
// and owner-gated deletion. Identity is always passed in explicitly by
// the caller; the service never derives it from ambient state.
type ImageService struct {
	images  domain.ImageRepository
	files   domain.FileStore
	baseURL string
}

// NewImageService creates a new ImageService. baseURL is the externally
// reachable server base used to build retrieval URLs.
func NewImageService(images domain.ImageRepository, files domain.FileStore, baseURL string) *ImageService {
	return &ImageService{images: images, files: files, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload validates and stores an image owned by the given account.
// The id is assigned before the first write, so the retrieval URL is
// known up front and a single insert suffices.
func (s *ImageService) Upload(ctx context.Context, owner *domain.Account, fileName, mimeType, title, description string, data []byte) (*domain.Image, error) {
	if owner == nil {
		return nil, domain.ErrForbidden
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %q is not an image type", domain.ErrInvalidFileType, mimeType)
	}

	key, err := generateStorageKey()
	if err != nil {
		return nil, fmt.Errorf("generate storage key: %w", err)
	}

	if err := s.files.Save(ctx, key, data); err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}

	id := uuid.NewString()
	image := &domain.Image{
		ID:            id,
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
		URL:           s.baseURL + "/api/images/" + id + "/file",
		Title:         title,
		Description:   description,
		FileName:      fileName,
		FileSize:      int64(len(data)),
		MimeType:      mimeType,
		StorageKey:    key,
	}

	if err := s.images.Create(ctx, image); err != nil {
		// Best-effort cleanup of the stored bytes.
		s.files.Delete(ctx, key)
		return nil, fmt.Errorf("create image record: %w", err)
	}
	return image, nil
}

// Get returns image metadata by id.
func (s *ImageService) Get(ctx context.Context, id string) (*domain.Image, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return image, nil
}

// GetFile returns the raw bytes and declared mime type of an image.
func (s *ImageService) GetFile(ctx context.Context, id string) ([]byte, string, error) {
	image, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.files.Get(ctx, image.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("get file: %w", err)
	}
	return data, image.MimeType, nil
}

// ListLatest returns one page of images ordered by upload time
// descending. Limit must be positive and offset non-negative; both are
// rejected here as well as at the transport boundary so no pagination
// arithmetic ever sees a zero limit.
func (s *ImageService) ListLatest(ctx context.Context, limit, offset int) (*domain.ImagePage, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidInput)
	}

	total, err := s.images.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count images: %w", err)
	}

	images, err := s.images.ListLatest(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	return &domain.ImagePage{
		Images: images,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Delete removes an image and its stored bytes. Only the owner may
// delete; a non-owner gets ErrForbidden, which deliberately differs from
// the not-found outcome for an absent id.
func (s *ImageService) Delete(ctx context.Context, requester *domain.Account, id string) error {
	image, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !CanMutate(requester, image) {
		return domain.ErrForbidden
	}

	// Delete stored bytes first, then metadata.
	if err := s.files.Delete(ctx, image.StorageKey); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if err := s.images.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete image record: %w", err)
	}
	return nil
}

func generateStorageKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "images/" + hex.EncodeToString(b), nil
}
