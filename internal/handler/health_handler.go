package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// PingFunc checks one dependency
type PingFunc func(ctx context.Context) error

// HealthResponse reports the state of each dependency
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// HealthHandler serves /health
type HealthHandler struct {
	checks map[string]PingFunc
}

func NewHealthHandler(checks map[string]PingFunc) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Check pings every dependency and answers 503 if any of them is down
func (h *HealthHandler) Check(c echo.Context) error {
	log := logger.FromContext(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	res := HealthResponse{Status: "ok", Dependencies: map[string]string{}}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			log.Error("Health check failed", zap.String("dependency", name), zap.Error(err))
			res.Dependencies[name] = "down"
			res.Status = "degraded"
			continue
		}
		res.Dependencies[name] = "up"
	}

	if res.Status != "ok" {
		return c.JSON(http.StatusServiceUnavailable, res)
	}
	return c.JSON(http.StatusOK, res)
}
