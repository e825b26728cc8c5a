package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/muralia/muralia/internal/domain"
	"github.com/muralia/muralia/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth    *service.AuthService
	limiter *service.RateLimiter
}

// NewAuthHandler creates a new AuthHandler. limiter may be nil to
// disable credential-endpoint throttling (tests).
func NewAuthHandler(auth *service.AuthService, limiter *service.RateLimiter) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter}
}

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"email":"...","username":"...","password":"...","firstName":"...","lastName":"..."}
// Response: 201 {"token":"...","tokenType":"Bearer","expiresIn":3600,"account":{...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r) {
		writeError(w, r, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
		return
	}

	var req struct {
		Email     string `json:"email"`
		Username  string `json:"username"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	account, token, err := h.auth.Register(r.Context(), req.Email, req.Username, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, r, http.StatusConflict, "An account with that email already exists.")
		case errors.Is(err, domain.ErrDuplicateUsername):
			writeError(w, r, http.StatusConflict, "An account with that username already exists.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.Error("register account", "error", err)
			writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toAuthResponseDTO(account, token))
}

// HandleLogin processes a JSON login request. Unknown email and wrong
// password produce the identical response.
// POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r) {
		writeError(w, r, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	account, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		slog.Error("login account", "error", err)
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponseDTO(account, token))
}

// HandleLogout acknowledges a logout. Tokens are self-contained and
// cannot be revoked server-side; the previously issued token stays valid
// until its expiry and clients must discard it themselves.
// POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated account.
// GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, r, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

func (h *AuthHandler) allow(r *http.Request) bool {
	if h.limiter == nil {
		return true
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return h.limiter.Allow(host)
}
