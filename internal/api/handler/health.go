package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// Dependency is a named backing service checked by the readiness probe.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// ConnectionCounter reports the number of open push connections.
type ConnectionCounter interface {
	Count() int
}

type HealthHandler struct {
	deps  []Dependency
	conns ConnectionCounter
}

func NewHealthHandler(conns ConnectionCounter, deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps, conns: conns}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	Connections  int                         `json:"connections"`
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready. It answers 503 when any dependency
// fails its ping.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true
	for _, d := range h.deps {
		if err := d.Ping(ctx); err != nil {
			deps[d.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[d.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	resp := readinessResponse{Status: status, Dependencies: deps}
	if h.conns != nil {
		resp.Connections = h.conns.Count()
	}
	return c.JSON(httpStatus, resp)
}
