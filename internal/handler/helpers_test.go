package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/muralia/muralia/internal/handler"
	"github.com/muralia/muralia/internal/repository/sqlite"
	"github.com/muralia/muralia/internal/service"
)

const (
	testSecret     = "handler-test-secret-key-0123456789abcdef"
	testUploadCap  = 1 << 20
	testServerBase = "http://localhost:8080"
)

type testEnv struct {
	server *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithLimiter(t, nil, testUploadCap)
}

func newTestEnvWithLimiter(t *testing.T, limiter *service.RateLimiter, maxUploadBytes int64) *testEnv {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	auth := service.NewAuthService(db.Accounts(), service.NewPasswordHasher(4), service.NewTokenService(testSecret))
	images := service.NewImageService(db.Images(), db.Files(), testServerBase)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, images, limiter, maxUploadBytes)

	server := httptest.NewServer(handler.SecurityHeaders(handler.Authenticate(auth, mux)))
	t.Cleanup(server.Close)

	return &testEnv{server: server}
}

// register creates an account through the HTTP surface and returns the
// auth response, failing the test on any non-201 outcome.
func (e *testEnv) register(t *testing.T, email, username, password string) handler.AuthResponseDTO {
	t.Helper()

	resp := e.postJSON(t, "/api/auth/register", map[string]string{
		"email":     email,
		"username":  username,
		"password":  password,
		"firstName": "Test",
		"lastName":  "User",
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("register %s: status %d: %s", email, resp.StatusCode, body)
	}

	var out handler.AuthResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return out
}

func (e *testEnv) postJSON(t *testing.T, path string, body any, token string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) get(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) delete(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, e.server.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

// upload posts a multipart image with an explicit part content type.
func (e *testEnv) upload(t *testing.T, token, fileName, contentType string, data []byte, title string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	if contentType != "" {
		partHeader.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if title != "" {
		if err := mw.WriteField("title", title); err != nil {
			t.Fatalf("write title field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/api/images", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status %d, want %d: %s", resp.StatusCode, want, body)
	}
}
