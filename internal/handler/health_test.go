package handler_test

import (
	"net/http"
	"testing"
)

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/healthz", "")
	wantStatus(t, resp, http.StatusOK)

	body := decodeJSON[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
}
