package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/query"
)

// MockPostRepository is a mock implementation of repository.PostRepository
// (and therefore of strategy.PostStore). It captures every compiled query
// so tests can inspect the generated SQL and arguments.
type MockPostRepository struct {
	Posts      map[string]*models.Post
	Results    []models.Post
	Queries    []*query.Compiled
	SelectErr  error
	SelectFunc func(q *query.Compiled) ([]models.Post, error)
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		Posts: make(map[string]*models.Post),
	}
}

func (m *MockPostRepository) SelectPosts(ctx context.Context, q *query.Compiled) ([]models.Post, error) {
	m.Queries = append(m.Queries, q)
	if m.SelectFunc != nil {
		return m.SelectFunc(q)
	}
	if m.SelectErr != nil {
		return nil, m.SelectErr
	}
	return m.Results, nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return m.Posts[id], nil
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	m.Posts[post.ID] = post
	return nil
}

func (m *MockPostRepository) Count(ctx context.Context) (int, error) {
	return len(m.Posts), nil
}

// LastQuery returns the most recently captured query, or nil.
func (m *MockPostRepository) LastQuery() *query.Compiled {
	if len(m.Queries) == 0 {
		return nil
	}
	return m.Queries[len(m.Queries)-1]
}

// MockRecommendationRepository is an in-memory mock of
// repository.RecommendationRepository. Upserts are serialized by a mutex,
// mirroring the atomicity the real store gets from ON CONFLICT increments.
type MockRecommendationRepository struct {
	mu        sync.Mutex
	Records   map[string]*models.PostRecommendation
	UpsertErr error
}

func NewMockRecommendationRepository() *MockRecommendationRepository {
	return &MockRecommendationRepository{
		Records: make(map[string]*models.PostRecommendation),
	}
}

func recordKey(userID, postID string) string {
	return userID + "/" + postID
}

func (m *MockRecommendationRepository) Upsert(ctx context.Context, userID string, strategyName models.StrategyName, postIDs []string) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, postID := range postIDs {
		key := recordKey(userID, postID)
		if rec, ok := m.Records[key]; ok {
			rec.RecommendationCount++
			rec.StrategyName = strategyName
			rec.LastRecommendedAt = now
			continue
		}
		m.Records[key] = &models.PostRecommendation{
			UserID:              userID,
			PostID:              postID,
			StrategyName:        strategyName,
			RecommendationCount: 1,
			LastRecommendedAt:   now,
			CreatedAt:           now,
		}
	}
	return nil
}

func (m *MockRecommendationRepository) Get(ctx context.Context, userID, postID string) (*models.PostRecommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.Records[recordKey(userID, postID)]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (m *MockRecommendationRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records), nil
}
