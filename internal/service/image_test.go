package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/muralia/muralia/internal/domain"
	"github.com/muralia/muralia/internal/repository/sqlite"
	"github.com/muralia/muralia/internal/service"
)

const testBaseURL = "http://localhost:8080"

func newTestImageService(t *testing.T) (*service.ImageService, *sqlite.DB) {
	t.Helper()
	db := newTestStore(t)
	return service.NewImageService(db.Images(), db.Files(), testBaseURL), db
}

func createTestAccount(t *testing.T, db *sqlite.DB, email, username string) *domain.Account {
	t.Helper()
	account := &domain.Account{Email: email, Username: username, PasswordHash: "hash"}
	if err := db.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func TestImageService_Upload_Success(t *testing.T) {
	images, db := newTestImageService(t)
	owner := createTestAccount(t, db, "owner@example.com", "owner")
	ctx := context.Background()

	data := []byte("fake png bytes")
	image, err := images.Upload(ctx, owner, "photo.png", "image/png", "My photo", "A test upload", data)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if image.ID == "" {
		t.Fatal("expected image ID to be assigned")
	}
	if image.OwnerID != owner.ID {
		t.Fatalf("expected owner %d, got %d", owner.ID, image.OwnerID)
	}
	if image.FileSize != int64(len(data)) {
		t.Fatalf("expected file size %d, got %d", len(data), image.FileSize)
	}
	wantURL := testBaseURL + "/api/images/" + image.ID + "/file"
	if image.URL != wantURL {
		t.Fatalf("expected URL %s, got %s", wantURL, image.URL)
	}

	got, mimeType, err := images.GetFile(ctx, image.ID)
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("expected stored bytes to round-trip unchanged")
	}
	if mimeType != "image/png" {
		t.Fatalf("expected mime type image/png, got %s", mimeType)
	}
}

func TestImageService_Upload_EmptyFile(t *testing.T) {
	images, db := newTestImageService(t)
	owner := createTestAccount(t, db, "owner@example.com", "owner")

	_, err := images.Upload(context.Background(), owner, "empty.png", "image/png", "", "", nil)
	if !errors.Is(err, domain.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestImageService_Upload_InvalidFileType(t *testing.T) {
	images, db := newTestImageService(t)
	owner := createTestAccount(t, db, "owner@example.com", "owner")
	ctx := context.Background()

	for _, mimeType := range []string{"text/plain", "application/pdf", ""} {
		_, err := images.Upload(ctx, owner, "doc.txt", mimeType, "", "", []byte("data"))
		if !errors.Is(err, domain.ErrInvalidFileType) {
			t.Fatalf("Upload with %q: expected ErrInvalidFileType, got %v", mimeType, err)
		}
	}

	// Nothing may be persisted by rejected uploads.
	page, err := images.ListLatest(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListLatest: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected no persisted images, got %d", page.Total)
	}
}

func TestImageService_Upload_AnonymousForbidden(t *testing.T) {
	images, _ := newTestImageService(t)

	_, err := images.Upload(context.Background(), nil, "photo.png", "image/png", "", "", []byte("data"))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestImageService_ListLatest_Pagination(t *testing.T) {
	images, db := newTestImageService(t)
	owner := createTestAccount(t, db, "owner@example.com", "owner")
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		image, err := images.Upload(ctx, owner, fmt.Sprintf("photo-%d.png", i), "image/png", "", "", []byte{byte(i + 1)})
		if err != nil {
			t.Fatalf("Upload %d: %v", i, err)
		}
		ids = append(ids, image.ID)
	}

	page, err := images.ListLatest(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListLatest(2, 0): %v", err)
	}
	if len(page.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(page.Images))
	}
	if page.Total != 5 {
		t.Fatalf("expected total 5, got %d", page.Total)
	}
	if page.Limit != 2 || page.Offset != 0 {
		t.Fatalf("expected limit/offset echoed back, got %d/%d", page.Limit, page.Offset)
	}
	// Newest first.
	if page.Images[0].ID != ids[4] {
		t.Fatalf("expected newest image %s first, got %s", ids[4], page.Images[0].ID)
	}
	if page.Images[1].ID != ids[3] {
		t.Fatalf("expected second newest image %s, got %s", ids[3], page.Images[1].ID)
	}

	page, err = images.ListLatest(ctx, 2, 4)
	if err != nil {
		t.Fatalf("ListLatest(2, 4): %v", err)
	}
	if len(page.Images) != 1 {
		t.Fatalf("expected 1 image at offset 4, got %d", len(page.Images))
	}
	if page.Images[0].ID != ids[0] {
		t.Fatalf("expected oldest image %s last, got %s", ids[0], page.Images[0].ID)
	}
}

func TestImageService_ListLatest_InvalidBounds(t *testing.T) {
	images, _ := newTestImageService(t)
	ctx := context.Background()

	if _, err := images.ListLatest(ctx, 0, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero limit, got %v", err)
	}
	if _, err := images.ListLatest(ctx, -1, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative limit, got %v", err)
	}
	if _, err := images.ListLatest(ctx, 10, -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative offset, got %v", err)
	}
}

func TestImageService_Delete_NonOwnerForbidden(t *testing.T) {
	images, db := newTestImageService(t)
	owner := createTestAccount(t, db, "owner@example.com", "owner")
	other := createTestAccount(t, db, "other@example.com", "other")
	ctx := context.Background()

	image, err := images.Upload(ctx, owner, "photo.png", "image/png", "", "", []byte("data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := images.Delete(ctx, other, image.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// The image must still be there.
	if _, err := images.Get(ctx, image.ID); err != nil {
		t.Fatalf("Get after denied delete: %v", err)
	}
}

func TestImageService_Delete_OwnerSucceeds(t *testing.T) {
	images, db := newTestImageService(t)
	owner := createTestAccount(t, db, "owner@example.com", "owner")
	ctx := context.Background()

	image, err := images.Upload(ctx, owner, "photo.png", "image/png", "", "", []byte("data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := images.Delete(ctx, owner, image.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := images.Get(ctx, image.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, _, err := images.GetFile(ctx, image.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted file, got %v", err)
	}
}

func TestImageService_Delete_MissingID(t *testing.T) {
	images, db := newTestImageService(t)
	owner := createTestAccount(t, db, "owner@example.com", "owner")

	err := images.Delete(context.Background(), owner, "no-such-id")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImageService_Get_NotFoundNamesID(t *testing.T) {
	images, _ := newTestImageService(t)

	_, err := images.Get(context.Background(), "missing-id")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing-id") {
		t.Fatalf("expected error to name the id, got %q", err)
	}
}
