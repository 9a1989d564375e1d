package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return response
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler(nil, nil, discardLogger())

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if response := decodeHealth(t, rec); response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name           string
		db             HealthChecker
		cache          HealthChecker
		expectedCode   int
		expectedStatus string
		expectedChecks map[string]string
	}{
		{
			name:           "all healthy",
			db:             &mockHealthChecker{},
			cache:          &mockHealthChecker{},
			expectedCode:   http.StatusOK,
			expectedStatus: "ok",
			expectedChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name:           "database down",
			db:             &mockHealthChecker{err: errors.New("connection refused password=hunter2")},
			cache:          &mockHealthChecker{},
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "unhealthy",
			expectedChecks: map[string]string{"postgres": "error", "redis": "ok"},
		},
		{
			name:           "redis down",
			db:             &mockHealthChecker{},
			cache:          &mockHealthChecker{err: errors.New("timeout")},
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "unhealthy",
			expectedChecks: map[string]string{"postgres": "ok", "redis": "error"},
		},
		{
			name:           "not configured",
			expectedCode:   http.StatusOK,
			expectedStatus: "ok",
			expectedChecks: map[string]string{"postgres": "not configured", "redis": "not configured"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.cache, discardLogger())

			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			response := decodeHealth(t, rec)
			if response.Status != tt.expectedStatus {
				t.Errorf("expected status %q, got %q", tt.expectedStatus, response.Status)
			}
			for name, want := range tt.expectedChecks {
				if got := response.Checks[name]; got != want {
					t.Errorf("check %s: expected %q, got %q", name, want, got)
				}
			}
		})
	}
}
