package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func serve(h *HealthChecker, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterHealthEndpoints(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker()
	h.AddCheck("spreadsheet", func(context.Context) error { return errors.New("unreachable") })

	rec := serve(h, "/healthz")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if resp := decodeHealth(t, rec); resp.Status != healthStatusOK {
		t.Errorf("status = %q, want %q", resp.Status, healthStatusOK)
	}
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(h *HealthChecker)
		wantCode     int
		wantStatus   string
		wantCheckKey string
		wantCheckVal string
	}{
		{
			name:         "ready without checks",
			setup:        func(h *HealthChecker) {},
			wantCode:     http.StatusOK,
			wantStatus:   healthStatusOK,
			wantCheckKey: "ready",
			wantCheckVal: healthStatusOK,
		},
		{
			name: "passing check",
			setup: func(h *HealthChecker) {
				h.AddCheck("spreadsheet", func(context.Context) error { return nil })
			},
			wantCode:     http.StatusOK,
			wantStatus:   healthStatusOK,
			wantCheckKey: "spreadsheet",
			wantCheckVal: healthStatusOK,
		},
		{
			name: "failing check",
			setup: func(h *HealthChecker) {
				h.AddCheck("spreadsheet", func(context.Context) error { return errors.New("worksheet not found") })
			},
			wantCode:     http.StatusServiceUnavailable,
			wantStatus:   healthStatusNotReady,
			wantCheckKey: "spreadsheet",
			wantCheckVal: "worksheet not found",
		},
		{
			name:         "not ready",
			setup:        func(h *HealthChecker) { h.SetReady(false) },
			wantCode:     http.StatusServiceUnavailable,
			wantStatus:   healthStatusNotReady,
			wantCheckKey: "ready",
			wantCheckVal: healthStatusNotReady,
		},
		{
			name:         "shutting down",
			setup:        func(h *HealthChecker) { h.SetShuttingDown() },
			wantCode:     http.StatusServiceUnavailable,
			wantStatus:   healthStatusNotReady,
			wantCheckKey: "shutdown",
			wantCheckVal: healthStatusShuttingDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker()
			tt.setup(h)

			rec := serve(h, "/readyz")
			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}

			resp := decodeHealth(t, rec)
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if got := resp.Checks[tt.wantCheckKey]; got != tt.wantCheckVal {
				t.Errorf("checks[%q] = %q, want %q", tt.wantCheckKey, got, tt.wantCheckVal)
			}
		})
	}
}

func TestHealthChecker_Detailed(t *testing.T) {
	h := NewHealthChecker()
	rec := serve(h, "/healthz/detailed")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp DetailedHealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != healthStatusOK {
		t.Errorf("status = %q, want %q", resp.Status, healthStatusOK)
	}
	if resp.Uptime == "" {
		t.Error("expected uptime to be set")
	}

	h.SetShuttingDown()
	rec = serve(h, "/healthz/detailed")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHealthChecker_CheckReceivesDeadline(t *testing.T) {
	h := NewHealthChecker()
	h.AddCheck("deadline", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	})

	if rec := serve(h, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthChecker_ReadyState(t *testing.T) {
	h := NewHealthChecker()
	if !h.IsReady() {
		t.Error("new checker should be ready")
	}
	h.SetReady(false)
	if h.IsReady() {
		t.Error("expected not ready after SetReady(false)")
	}
}
