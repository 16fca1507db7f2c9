package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobcoach/internal/delivery/http/dto"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	app := fiber.New()
	NewHealthHandler(
		HealthCheck{Name: "database", Pinger: pingFunc(func(context.Context) error { return nil })},
		HealthCheck{Name: "redis", Pinger: pingFunc(func(context.Context) error { return errors.New("down") })},
		HealthCheck{Name: "search"},
	).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "degraded", out.Status)
	assert.Equal(t, map[string]string{"database": "up", "redis": "down", "search": "disabled"}, out.Checks)
}
