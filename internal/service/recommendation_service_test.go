package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/post-recommendations-api/internal/config"
	"github.com/post-recommendations-api/internal/mocks"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/service"
	"github.com/post-recommendations-api/internal/strategy"
	"github.com/rs/zerolog"
)

func testConfig() *config.Config {
	return &config.Config{
		Recommend: config.RecommendConfig{
			EmbeddingModel:   "text-embedding-ada-002",
			RecordTimeout:    5 * time.Second,
			MaxRequestCount:  50,
			FallbackStrategy: models.StrategyBestOf,
		},
	}
}

func newTestService(posts *mocks.MockPostRepository, records *mocks.MockRecommendationRepository) service.RecommendationService {
	return service.NewRecommendationService(posts, records, testConfig(), zerolog.Nop())
}

func bestOfSpec() models.StrategySpecification {
	return models.StrategySpecification{Name: models.StrategyBestOf, PostID: "seed1"}
}

func TestRecommend_ReturnsStrategyResults(t *testing.T) {
	posts := mocks.NewMockPostRepository()
	posts.Results = []models.Post{{ID: "p1"}, {ID: "p2"}}
	records := mocks.NewMockRecommendationRepository()
	svc := newTestService(posts, records)

	got, err := svc.Recommend(context.Background(), nil, 5, bestOfSpec())
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p1" {
		t.Errorf("Unexpected results: %v", got)
	}
}

func TestRecommend_RejectsUnknownStrategy(t *testing.T) {
	svc := newTestService(mocks.NewMockPostRepository(), mocks.NewMockRecommendationRepository())

	_, err := svc.Recommend(context.Background(), nil, 5, models.StrategySpecification{Name: "trending", PostID: "seed1"})
	if !errors.Is(err, strategy.ErrUnknownStrategy) {
		t.Fatalf("Expected ErrUnknownStrategy, got %v", err)
	}
}

func TestRecommend_RejectsNonPositiveCount(t *testing.T) {
	posts := mocks.NewMockPostRepository()
	svc := newTestService(posts, mocks.NewMockRecommendationRepository())

	for _, count := range []int{0, -3} {
		_, err := svc.Recommend(context.Background(), nil, count, bestOfSpec())
		if !errors.Is(err, service.ErrInvalidCount) {
			t.Errorf("count %d: expected ErrInvalidCount, got %v", count, err)
		}
	}
	if len(posts.Queries) != 0 {
		t.Errorf("No query should run for a non-positive count")
	}
}

func TestRecommend_RecordsReturnedPostsForKnownUser(t *testing.T) {
	posts := mocks.NewMockPostRepository()
	posts.Results = []models.Post{{ID: "p1"}, {ID: "p2"}}
	records := mocks.NewMockRecommendationRepository()
	svc := newTestService(posts, records)

	user := &models.User{ID: "u1"}
	if _, err := svc.Recommend(context.Background(), user, 5, bestOfSpec()); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	svc.Close()

	for _, postID := range []string{"p1", "p2"} {
		rec, err := records.Get(context.Background(), "u1", postID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if rec == nil || rec.RecommendationCount != 1 {
			t.Errorf("Expected one recording for %s, got %+v", postID, rec)
		}
		if rec != nil && rec.StrategyName != models.StrategyBestOf {
			t.Errorf("Recording should carry the strategy name, got %q", rec.StrategyName)
		}
	}
}

func TestRecommend_CountersOnlyIncrease(t *testing.T) {
	posts := mocks.NewMockPostRepository()
	posts.Results = []models.Post{{ID: "p1"}}
	records := mocks.NewMockRecommendationRepository()
	svc := newTestService(posts, records)

	user := &models.User{ID: "u1"}
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Recommend(context.Background(), user, 1, bestOfSpec()); err != nil {
				t.Errorf("Recommend failed: %v", err)
			}
		}()
	}
	wg.Wait()
	svc.Close()

	rec, err := records.Get(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec == nil || rec.RecommendationCount != n {
		t.Errorf("Expected %d concurrent recommendations to count %d, got %+v", n, n, rec)
	}
}

func TestRecommend_AnonymousRequestsAreNotRecorded(t *testing.T) {
	posts := mocks.NewMockPostRepository()
	posts.Results = []models.Post{{ID: "p1"}}
	records := mocks.NewMockRecommendationRepository()
	svc := newTestService(posts, records)

	if _, err := svc.Recommend(context.Background(), nil, 5, bestOfSpec()); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	svc.Close()

	count, _ := records.Count(context.Background())
	if count != 0 {
		t.Errorf("Anonymous recommendations must not be recorded, got %d records", count)
	}
}

func TestRecommend_RecordingFailureDoesNotFailResponse(t *testing.T) {
	posts := mocks.NewMockPostRepository()
	posts.Results = []models.Post{{ID: "p1"}}
	records := mocks.NewMockRecommendationRepository()
	records.UpsertErr = errors.New("connection reset")
	svc := newTestService(posts, records)

	got, err := svc.Recommend(context.Background(), &models.User{ID: "u1"}, 5, bestOfSpec())
	if err != nil {
		t.Fatalf("Recording failure must not propagate: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Posts should still be returned, got %v", got)
	}
	svc.Close()
}

func TestRecommend_StrategyErrorPropagates(t *testing.T) {
	posts := mocks.NewMockPostRepository()
	posts.SelectErr = errors.New("relation does not exist")
	records := mocks.NewMockRecommendationRepository()
	svc := newTestService(posts, records)

	_, err := svc.Recommend(context.Background(), &models.User{ID: "u1"}, 5, bestOfSpec())
	if err == nil {
		t.Fatal("Expected the store error to propagate")
	}
	svc.Close()

	count, _ := records.Count(context.Background())
	if count != 0 {
		t.Errorf("Failed recommendations must not be recorded, got %d records", count)
	}
}
