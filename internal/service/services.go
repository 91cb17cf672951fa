package service

import (
	"context"

	"github.com/post-recommendations-api/internal/config"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/repository"
	"github.com/rs/zerolog"
)

// RecommendationService is the engine's sole exposed entry point: resolve a
// strategy by name, run it, and record the outcome for throttling.
type RecommendationService interface {
	// Recommend returns up to count ranked candidate posts for the spec.
	// user may be nil for anonymous requests.
	Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error)
	// Close waits for in-flight recommendation recordings to finish.
	Close()
}

// Services holds all service interfaces
type Services struct {
	Recommendation RecommendationService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Recommendation: NewRecommendationService(repos.Post, repos.Recommendation, cfg, log),
	}
}
