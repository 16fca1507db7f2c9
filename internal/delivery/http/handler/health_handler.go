package handler

import (
	"context"
	"time"

	"jobcoach/internal/delivery/http/dto"
	"jobcoach/internal/delivery/http/response"

	"github.com/gofiber/fiber/v3"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthCheck struct {
	Name   string
	Pinger Pinger
}

type HealthHandler struct {
	checks []HealthCheck
}

// NewHealthHandler reports a check with a nil Pinger as disabled.
func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	out := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}

	for _, chk := range h.checks {
		if chk.Pinger == nil {
			out.Checks[chk.Name] = "disabled"
			continue
		}
		ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
		err := chk.Pinger.Ping(ctx)
		cancel()
		if err != nil {
			out.Checks[chk.Name] = "down"
			out.Status = "degraded"
			continue
		}
		out.Checks[chk.Name] = "up"
	}

	return response.JSON(c, fiber.StatusOK, out)
}
