package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/muralia/muralia/internal/domain"
	"github.com/muralia/muralia/internal/service"
)

type contextKey string

const accountContextKey contextKey = "account"

// AccountFromContext extracts the authenticated account from the request
// context. Returns nil for anonymous requests.
func AccountFromContext(ctx context.Context) *domain.Account {
	account, _ := ctx.Value(accountContextKey).(*domain.Account)
	return account
}

// Authenticate is middleware that resolves a bearer token from the
// Authorization header into a verified account and attaches it to the
// request context. It never rejects a request: missing, malformed,
// expired, or otherwise invalid tokens simply leave the request
// anonymous, and each operation decides whether it requires an identity.
// This is the only place a token is turned into an identity.
func Authenticate(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if AccountFromContext(r.Context()) == nil {
			if raw, ok := bearerToken(r); ok {
				account, err := auth.ResolveToken(r.Context(), raw)
				if err == nil {
					r = r.WithContext(context.WithValue(r.Context(), accountContextKey, account))
				} else {
					slog.Debug("bearer token rejected", "error", err)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

// SecurityHeaders sets conservative response headers on every request.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
