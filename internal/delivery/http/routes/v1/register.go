package v1

import (
	"jobcoach/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers holds the v1 handlers; a nil handler leaves its routes out.
type Handlers struct {
	Assistant         *handler.AssistantHandler
	JobRecommendation *handler.JobRecommendationHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Assistant != nil {
		h.Assistant.RegisterRoutes(r)
	}
	if h.JobRecommendation != nil {
		h.JobRecommendation.RegisterRoutes(r)
	}
}
