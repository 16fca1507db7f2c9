package dto

import "jobcoach/internal/usecase"

type JobRecommendationResponse struct {
	Jobs      []usecase.RecommendedJob `json:"jobs"`
	Companies []usecase.CompanySummary `json:"companies"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
