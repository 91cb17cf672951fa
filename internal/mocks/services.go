package mocks

import (
	"context"

	"github.com/post-recommendations-api/internal/models"
)

// MockRecommendationService is a mock implementation of
// service.RecommendationService for handler tests.
type MockRecommendationService struct {
	Results       []models.Post
	Err           error
	RecommendFunc func(user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error)

	Calls []RecommendCall
}

// RecommendCall records one Recommend invocation.
type RecommendCall struct {
	UserID string
	Count  int
	Spec   models.StrategySpecification
}

func NewMockRecommendationService() *MockRecommendationService {
	return &MockRecommendationService{}
}

func (m *MockRecommendationService) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	call := RecommendCall{Count: count, Spec: spec}
	if user != nil {
		call.UserID = user.ID
	}
	m.Calls = append(m.Calls, call)

	if m.RecommendFunc != nil {
		return m.RecommendFunc(user, count, spec)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}

func (m *MockRecommendationService) Close() {}
