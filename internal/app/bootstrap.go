package app

import (
	"context"
	"fmt"
	"strings"

	"jobcoach/internal/config"
	"jobcoach/internal/delivery/http/handler"
	"jobcoach/internal/delivery/http/middleware"
	"jobcoach/internal/delivery/http/routes"
	v1 "jobcoach/internal/delivery/http/routes/v1"
	"jobcoach/internal/logger"
	"jobcoach/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f}
}

// Bootstrap builds the container and the HTTP app on top of it. The returned
// cleanup closes the container.
func Bootstrap(ctx context.Context, cfg config.Config, l *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	l := logger.OrNop(c.Logger)
	errMw := middleware.NewErrorMiddleware(l.Named("http"))
	accessMw := middleware.NewAccessLogMiddleware(l.Named("access"))
	app.Use(errMw.Middleware())
	app.Use(accessMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	checks := []handler.HealthCheck{{Name: "database"}, {Name: "redis"}}
	if c.DB != nil {
		checks[0].Pinger = c.DB
	}
	if c.Cache != nil {
		checks[1].Pinger = c.Cache
	}

	authMw := middleware.NewAuthMiddleware(jwt.NewHMACService(c.Config.JWT.AccessSecret))

	routes.NewRegistry(
		handler.NewHealthHandler(checks...),
		v1.Handlers{
			Assistant:         handler.NewAssistantHandler(c.Assistant, c.Config.Assistant.StreamTimeout, logger.OrNop(c.Logger).Named("assistant")),
			JobRecommendation: handler.NewJobRecommendationHandler(c.Recommender),
		},
		authMw.Middleware(),
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
