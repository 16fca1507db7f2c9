package handler

import (
	"jobcoach/internal/delivery/http/dto"
	"jobcoach/internal/delivery/http/middleware"
	"jobcoach/internal/delivery/http/response"
	"jobcoach/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobRecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewJobRecommendationHandler(uc usecase.RecommendationUsecase) *JobRecommendationHandler {
	return &JobRecommendationHandler{uc: uc}
}

func (h *JobRecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/recommendations", h.GetRecommendations)
}

// GetRecommendations serves the recommendation set the assistant is
// grounded on. Anonymous callers get the most recent listings.
func (h *JobRecommendationHandler) GetRecommendations(c fiber.Ctx) error {
	_, recs := h.uc.Recommend(c.Context(), middleware.UserID(c))
	return response.JSON(c, fiber.StatusOK, dto.JobRecommendationResponse{
		Jobs:      recs.Jobs,
		Companies: recs.Companies,
	})
}
