package handler

import (
	"net/http"

	"github.com/muralia/muralia/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, images *service.ImageService, limiter *service.RateLimiter, maxUploadBytes int64) {
	authHandler := NewAuthHandler(auth, limiter)
	imageHandler := NewImageHandler(images, maxUploadBytes)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.HandleFunc("GET /api/auth/me", authHandler.HandleMe)

	mux.HandleFunc("POST /api/images", imageHandler.HandleUpload)
	mux.HandleFunc("GET /api/images", imageHandler.HandleList)
	mux.HandleFunc("GET /api/images/{id}", imageHandler.HandleGet)
	mux.HandleFunc("GET /api/images/{id}/file", imageHandler.HandleFile)
	mux.HandleFunc("DELETE /api/images/{id}", imageHandler.HandleDelete)
}
