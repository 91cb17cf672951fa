package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/post-recommendations-api/internal/api"
	"github.com/post-recommendations-api/internal/config"
	"github.com/post-recommendations-api/internal/mocks"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/repository"
	"github.com/post-recommendations-api/internal/service"
	"github.com/post-recommendations-api/internal/strategy"
	"github.com/rs/zerolog"
)

func setupTestRouter() (*gin.Engine, *mocks.MockRecommendationService, *mocks.MockPostRepository, *mocks.MockRecommendationRepository) {
	gin.SetMode(gin.TestMode)

	mockSvc := mocks.NewMockRecommendationService()
	mockPosts := mocks.NewMockPostRepository()
	mockRecords := mocks.NewMockRecommendationRepository()

	services := &service.Services{Recommendation: mockSvc}
	repos := &repository.Repositories{
		Post:           mockPosts,
		Recommendation: mockRecords,
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Recommend: config.RecommendConfig{
			MaxRequestCount:  50,
			FallbackStrategy: models.StrategyBestOf,
		},
	}

	router := api.NewRouter(services, repos, cfg, zerolog.Nop())
	return router, mockSvc, mockPosts, mockRecords
}

func postRecommendations(router *gin.Engine, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/v1/recommendations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "post-recommendations-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, mockPosts, mockRecords := setupTestRouter()
	mockPosts.Posts["p1"] = &models.Post{ID: "p1"}
	mockRecords.Upsert(context.Background(), "u1", models.StrategyBestOf, []string{"p1"})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Database map[string]int `json:"database"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response.Database["posts"] != 1 || response.Database["recommendation_records"] != 1 {
		t.Errorf("Unexpected counts: %v", response.Database)
	}
}

func TestRecommend_Success(t *testing.T) {
	router, mockSvc, _, _ := setupTestRouter()
	mockSvc.Results = []models.Post{{ID: "p1"}, {ID: "p2"}}

	w := postRecommendations(router, map[string]any{
		"user_id": "u1",
		"count":   2,
		"strategy": map[string]any{
			"name":    "moreFromTag",
			"post_id": "seed1",
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Posts        []models.Post       `json:"posts"`
		Strategy     models.StrategyName `json:"strategy"`
		FallbackUsed bool                `json:"fallback_used"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if len(response.Posts) != 2 {
		t.Errorf("Expected 2 posts, got %d", len(response.Posts))
	}
	if response.Strategy != models.StrategyMoreFromTag || response.FallbackUsed {
		t.Errorf("Unexpected strategy attribution: %+v", response)
	}

	if len(mockSvc.Calls) != 1 {
		t.Fatalf("Expected 1 service call, got %d", len(mockSvc.Calls))
	}
	call := mockSvc.Calls[0]
	if call.UserID != "u1" || call.Count != 2 || call.Spec.PostID != "seed1" {
		t.Errorf("Unexpected call: %+v", call)
	}
}

func TestRecommend_DefaultsAndClampsCount(t *testing.T) {
	router, mockSvc, _, _ := setupTestRouter()
	mockSvc.Results = make([]models.Post, 50)

	w := postRecommendations(router, map[string]any{
		"strategy": map[string]any{"name": "bestOf"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if mockSvc.Calls[0].Count != 10 {
		t.Errorf("Omitted count should default to 10, got %d", mockSvc.Calls[0].Count)
	}

	w = postRecommendations(router, map[string]any{
		"count":    500,
		"strategy": map[string]any{"name": "bestOf"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if mockSvc.Calls[1].Count != 50 {
		t.Errorf("Count should clamp to the configured maximum, got %d", mockSvc.Calls[1].Count)
	}
}

func TestRecommend_InvalidRequests(t *testing.T) {
	router, mockSvc, _, _ := setupTestRouter()

	cases := []struct {
		name string
		body any
	}{
		{"negative count", map[string]any{"count": -1, "strategy": map[string]any{"name": "bestOf"}}},
		{"unknown strategy", map[string]any{"strategy": map[string]any{"name": "trending", "post_id": "seed1"}}},
		{"missing tag id", map[string]any{"strategy": map[string]any{"name": "newAndUpvotedInTag", "post_id": "seed1"}}},
		{"unknown feature", map[string]any{"strategy": map[string]any{
			"name":     "feature",
			"post_id":  "seed1",
			"features": []map[string]any{{"feature": "popularity", "weight": 1}},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postRecommendations(router, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	if len(mockSvc.Calls) != 0 {
		t.Errorf("Invalid requests must not reach the service, got %d calls", len(mockSvc.Calls))
	}
}

func TestRecommend_MalformedBody(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("POST", "/v1/recommendations", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestRecommend_EngineErrorsMapToStatus(t *testing.T) {
	// A spec that passes boundary validation can still fail inside the
	// engine; configuration errors come back as 400, the rest as 500.
	router, mockSvc, _, _ := setupTestRouter()

	mockSvc.Err = strategy.ErrNoFeatures
	w := postRecommendations(router, map[string]any{
		"strategy": map[string]any{
			"name":     "feature",
			"post_id":  "seed1",
			"features": []map[string]any{{"feature": "karma", "weight": 1}},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Engine config error should map to 400, got %d", w.Code)
	}

	mockSvc.Err = errors.New("connection refused")
	w = postRecommendations(router, map[string]any{
		"strategy": map[string]any{"name": "bestOf"},
	})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Unexpected engine error should map to 500, got %d", w.Code)
	}
}

func TestRecommend_FallbackFillsUnderfilledResult(t *testing.T) {
	router, mockSvc, _, _ := setupTestRouter()
	mockSvc.RecommendFunc = func(user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
		if spec.Name == models.StrategyBestOf {
			return []models.Post{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}, nil
		}
		return []models.Post{{ID: "p1"}}, nil
	}

	w := postRecommendations(router, map[string]any{
		"count": 3,
		"strategy": map[string]any{
			"name":    "moreFromTag",
			"post_id": "seed1",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Posts        []models.Post       `json:"posts"`
		Strategy     models.StrategyName `json:"strategy"`
		FallbackUsed bool                `json:"fallback_used"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if !response.FallbackUsed || response.Strategy != models.StrategyBestOf {
		t.Errorf("Fallback should be attributed: %+v", response)
	}
	if len(response.Posts) != 3 {
		t.Fatalf("Expected the fallback to fill to 3 posts, got %d", len(response.Posts))
	}
	// p1 came from the primary strategy; the fallback must not duplicate it.
	seen := map[string]int{}
	for _, p := range response.Posts {
		seen[p.ID]++
	}
	if seen["p1"] != 1 {
		t.Errorf("Fallback introduced a duplicate: %v", response.Posts)
	}

	if len(mockSvc.Calls) != 2 {
		t.Fatalf("Expected primary + fallback calls, got %d", len(mockSvc.Calls))
	}
	if mockSvc.Calls[1].Spec.Name != models.StrategyBestOf {
		t.Errorf("Second call should use the fallback strategy: %+v", mockSvc.Calls[1])
	}
}

func TestRecommend_NoFallbackWhenPrimaryIsFallback(t *testing.T) {
	router, mockSvc, _, _ := setupTestRouter()
	mockSvc.Results = []models.Post{{ID: "p1"}}

	w := postRecommendations(router, map[string]any{
		"count":    5,
		"strategy": map[string]any{"name": "bestOf"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(mockSvc.Calls) != 1 {
		t.Errorf("Fallback must not retry itself, got %d calls", len(mockSvc.Calls))
	}
}

func TestGetRecord(t *testing.T) {
	router, _, _, mockRecords := setupTestRouter()
	mockRecords.Upsert(context.Background(), "u1", models.StrategyBestOf, []string{"p1"})

	req := httptest.NewRequest("GET", "/v1/recommendations/records/p1?user_id=u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var record models.PostRecommendation
	json.Unmarshal(w.Body.Bytes(), &record)
	if record.RecommendationCount != 1 || record.StrategyName != models.StrategyBestOf {
		t.Errorf("Unexpected record: %+v", record)
	}
}

func TestGetRecord_MissingUserID(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/v1/recommendations/records/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	router, _, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/v1/recommendations/records/p404?user_id=u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
