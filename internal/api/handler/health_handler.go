package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sqli-workshop/connaissance-client/pkg/logger"
)

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

type healthResponse struct {
	Status    string `json:"status"    example:"OK"`
	Timestamp string `json:"timestamp" example:"2026-03-02T09:30:00Z"`
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// BreakerState reports a circuit breaker state without gating readiness.
type BreakerState interface {
	State() string
}

// ReadinessHandler handles GET /health/ready, the readiness probe. Ping errors
// are logged and never returned to the caller.
type ReadinessHandler struct {
	deps     map[string]Pinger
	breakers map[string]BreakerState
	log      zerolog.Logger
}

func NewReadinessHandler(deps map[string]Pinger, breakers map[string]BreakerState, log zerolog.Logger) *ReadinessHandler {
	return &ReadinessHandler{deps: deps, breakers: breakers, log: log}
}

type dependencyStatus struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	Breakers     map[string]string           `json:"breakers,omitempty"`
}

// Readiness godoc
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			l := logger.FromContext(ctx, h.log)
			l.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			deps[name] = dependencyStatus{Status: "unhealthy"}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	var breakers map[string]string
	if len(h.breakers) > 0 {
		breakers = make(map[string]string, len(h.breakers))
		for name, b := range h.breakers {
			breakers[name] = b.State()
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
		Breakers:     breakers,
	})
}
