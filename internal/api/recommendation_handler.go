package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/post-recommendations-api/internal/config"
	"github.com/post-recommendations-api/internal/feature"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/repository"
	"github.com/post-recommendations-api/internal/service"
	"github.com/post-recommendations-api/internal/strategy"
	"github.com/post-recommendations-api/internal/validation"
	"github.com/rs/zerolog"
)

// defaultRequestCount is used when the caller omits count.
const defaultRequestCount = 10

// RecommendationHandler handles recommendation endpoints
type RecommendationHandler struct {
	services *service.Services
	repos    *repository.Repositories
	cfg      *config.Config
	log      zerolog.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler
func NewRecommendationHandler(services *service.Services, repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		services: services,
		repos:    repos,
		cfg:      cfg,
		log:      log.With().Str("handler", "recommendation").Logger(),
	}
}

// recommendRequest is the body of POST /v1/recommendations. The user id
// comes from the authentication layer in front of this service; anonymous
// requests leave it empty.
type recommendRequest struct {
	UserID   string                       `json:"user_id,omitempty"`
	Count    int                          `json:"count"`
	Strategy models.StrategySpecification `json:"strategy"`
}

// recommendResponse is the ordered candidate list plus which strategy
// ultimately produced it.
type recommendResponse struct {
	Posts        []models.Post       `json:"posts"`
	Strategy     models.StrategyName `json:"strategy"`
	FallbackUsed bool                `json:"fallback_used"`
}

// Recommend handles POST /v1/recommendations
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	ctx := c.Request.Context()

	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Count == 0 {
		req.Count = defaultRequestCount
	}
	if req.Count < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be positive"})
		return
	}
	if req.Count > h.cfg.Recommend.MaxRequestCount {
		req.Count = h.cfg.Recommend.MaxRequestCount
	}

	if errs := validation.ValidateSpecification(&req.Strategy); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid strategy specification", "details": errs})
		return
	}

	var user *models.User
	if req.UserID != "" {
		user = &models.User{ID: req.UserID}
	}

	posts, err := h.services.Recommendation.Recommend(ctx, user, req.Count, req.Strategy)
	if err != nil {
		h.respondRecommendError(c, err)
		return
	}

	resp := recommendResponse{Posts: posts, Strategy: req.Strategy.Name}

	// Under-filled results may retry once with the fallback strategy. This
	// policy lives here, at the orchestration layer, not in the engine.
	if len(posts) < req.Count && !h.cfg.Recommend.DisableFallback && req.Strategy.Name != h.cfg.Recommend.FallbackStrategy {
		resp.Posts, resp.FallbackUsed = h.fillFromFallback(c, user, req, posts)
		if resp.FallbackUsed {
			resp.Strategy = h.cfg.Recommend.FallbackStrategy
		}
	}

	if resp.Posts == nil {
		resp.Posts = []models.Post{}
	}
	c.JSON(http.StatusOK, resp)
}

// fillFromFallback tops an under-filled result up with fallback-strategy
// candidates, skipping duplicates. Fallback failures keep the original
// result.
func (h *RecommendationHandler) fillFromFallback(c *gin.Context, user *models.User, req recommendRequest, posts []models.Post) ([]models.Post, bool) {
	fallbackSpec := models.StrategySpecification{
		Name:    h.cfg.Recommend.FallbackStrategy,
		PostID:  req.Strategy.PostID,
		Context: req.Strategy.Context,
	}

	extra, err := h.services.Recommendation.Recommend(c.Request.Context(), user, req.Count, fallbackSpec)
	if err != nil {
		h.log.Warn().
			Err(err).
			Str("strategy", string(req.Strategy.Name)).
			Str("fallback", string(fallbackSpec.Name)).
			Msg("Fallback strategy failed")
		return posts, false
	}

	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		seen[p.ID] = true
	}
	for _, p := range extra {
		if len(posts) >= req.Count {
			break
		}
		if !seen[p.ID] {
			posts = append(posts, p)
			seen[p.ID] = true
		}
	}
	return posts, true
}

// respondRecommendError maps engine errors to HTTP statuses: configuration
// errors are the caller's fault, everything else is a server failure.
func (h *RecommendationHandler) respondRecommendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, strategy.ErrUnknownStrategy),
		errors.Is(err, strategy.ErrMissingTagID),
		errors.Is(err, strategy.ErrMissingYear),
		errors.Is(err, strategy.ErrNoFeatures),
		errors.Is(err, feature.ErrUnknownFeature),
		errors.Is(err, service.ErrInvalidCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Recommendation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
	}
}

// GetRecord handles GET /v1/recommendations/records/:post_id?user_id=...
// It exposes the repeat counter for a (user, post) pair as a debugging aid.
func (h *RecommendationHandler) GetRecord(c *gin.Context) {
	ctx := c.Request.Context()

	postID := c.Param("post_id")
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id parameter is required"})
		return
	}

	record, err := h.repos.Recommendation.Get(ctx, userID, postID)
	if err != nil {
		h.log.Error().Err(err).Str("post_id", postID).Msg("Failed to get recommendation record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get recommendation record"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recommendation record not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}
