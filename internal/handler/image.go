package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/muralia/muralia/internal/domain"
	"github.com/muralia/muralia/internal/service"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ImageHandler handles image upload, retrieval, listing, and deletion.
type ImageHandler struct {
	images         *service.ImageService
	maxUploadBytes int64
}

// NewImageHandler creates a new ImageHandler. maxUploadBytes caps the
// request body before any bytes reach the service, which holds the full
// payload in memory.
func NewImageHandler(images *service.ImageService, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{images: images, maxUploadBytes: maxUploadBytes}
}

// HandleUpload processes a multipart image upload.
// POST /api/images (multipart: file + optional title, description)
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, r, http.StatusUnauthorized, "Authentication required.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the size limit.")
			return
		}
		writeError(w, r, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload", "error", err)
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	// Validation runs against the declared part type, not a sniffed one.
	mimeType := header.Header.Get("Content-Type")
	title := r.FormValue("title")
	description := r.FormValue("description")

	image, err := h.images.Upload(r.Context(), account, header.Filename, mimeType, title, description, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyFile):
			writeError(w, r, http.StatusBadRequest, "Uploaded file is empty.")
		case errors.Is(err, domain.ErrInvalidFileType):
			writeError(w, r, http.StatusBadRequest, "Only image files are accepted.")
		default:
			slog.Error("upload image", "error", err)
			writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toImageDTO(image))
}

// HandleList returns the latest images, newest first.
// GET /api/images?limit=&offset=
func (h *ImageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := defaultListLimit, 0

	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxListLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be an integer between 1 and 100.")
			return
		}
		limit = parsed
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, r, http.StatusBadRequest, "offset must be a non-negative integer.")
			return
		}
		offset = parsed
	}

	page, err := h.images.ListLatest(r.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("list images", "error", err)
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toImageListDTO(page))
}

// HandleGet returns image metadata.
// GET /api/images/{id}
func (h *ImageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	image, err := h.images.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Image not found with id: "+id)
			return
		}
		slog.Error("get image", "error", err)
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toImageDTO(image))
}

// HandleFile streams the raw image bytes with the original mime type.
// Content is immutable once uploaded, so responses are cacheable for a
// year.
// GET /api/images/{id}/file
func (h *ImageHandler) HandleFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data, mimeType, err := h.images.GetFile(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Image not found with id: "+id)
			return
		}
		slog.Error("serve image file", "error", err)
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.Write(data)
}

// HandleDelete removes an image. Only the owner may delete; a non-owner
// gets 403 while an absent id gets 404.
// DELETE /api/images/{id}
func (h *ImageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, r, http.StatusUnauthorized, "Authentication required.")
		return
	}

	id := r.PathValue("id")
	if err := h.images.Delete(r.Context(), account, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "Image not found with id: "+id)
		case errors.Is(err, domain.ErrForbidden):
			writeError(w, r, http.StatusForbidden, "You are not allowed to delete this image.")
		default:
			slog.Error("delete image", "error", err)
			writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
