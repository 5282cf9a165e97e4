package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

type fixedCount int

func (n fixedCount) Count() int { return int(n) }

func TestHealthHandler_Liveness(t *testing.T) {
	e := newEcho()
	h := NewHealthHandler(nil)

	c, rec := newContext(e, http.MethodGet, "/health", nil, nil)
	if err := h.Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := map[string]struct {
		deps       []Dependency
		wantCode   int
		wantStatus string
	}{
		"all healthy": {
			deps:       []Dependency{{Name: "mongodb", Ping: ok}, {Name: "redis", Ping: ok}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		"redis down": {
			deps:       []Dependency{{Name: "mongodb", Ping: ok}, {Name: "redis", Ping: down}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			h := NewHealthHandler(fixedCount(3), tc.deps...)

			c, rec := newContext(e, http.MethodGet, "/health/ready", nil, nil)
			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tc.wantStatus || resp.Connections != 3 {
				t.Fatalf("unexpected response %+v", resp)
			}
			if len(resp.Dependencies) != len(tc.deps) {
				t.Fatalf("expected %d dependencies, got %+v", len(tc.deps), resp.Dependencies)
			}
		})
	}
}
