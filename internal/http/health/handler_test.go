package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(h http.Handler) (*httptest.ResponseRecorder, Response) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	var body Response
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	return resp, body
}

func TestHealthHandler(t *testing.T) {
	resp, body := serve(Handler())

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
	if body.Status != "healthy" {
		t.Fatalf("expected status 'healthy', got %s", body.Status)
	}
}

func TestHealthHandlerRunsChecks(t *testing.T) {
	calls := 0
	ok := func(context.Context) error { calls++; return nil }

	resp, body := serve(Handler(ok, ok))
	if resp.Code != http.StatusOK || body.Status != "healthy" {
		t.Fatalf("expected healthy, got %d %s", resp.Code, body.Status)
	}
	if calls != 2 {
		t.Fatalf("expected 2 checks, got %d", calls)
	}
}

func TestHealthHandlerFailingCheck(t *testing.T) {
	failing := func(context.Context) error { return errors.New("firestore unreachable") }

	resp, body := serve(Handler(failing))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	if body.Status != "unhealthy" {
		t.Fatalf("expected status 'unhealthy', got %s", body.Status)
	}
}
