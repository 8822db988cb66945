package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthServer_Liveness(t *testing.T) {
	h := NewHealthServer(":0", discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.handleLiveness(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
}

func TestHealthServer_ReadinessFollowsState(t *testing.T) {
	h := NewHealthServer(":0", discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	h.handleReadiness(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness before SetReady = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	h.SetReady(true)
	rec = httptest.NewRecorder()
	h.handleReadiness(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("readiness after SetReady(true) = %d, want %d", rec.Code, http.StatusOK)
	}

	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.handleReadiness(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness after SetReady(false) = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHealthServer_StartStopsOnContextCancel(t *testing.T) {
	h := NewHealthServer("127.0.0.1:0", discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.Start(ctx)
	}()

	// Give the listener a moment to come up before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != http.ErrServerClosed {
			t.Errorf("Start() = %v, want %v", err, http.ErrServerClosed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("health server did not shut down after context cancel")
	}
}
