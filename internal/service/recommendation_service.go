package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/post-recommendations-api/internal/config"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/repository"
	"github.com/post-recommendations-api/internal/strategy"
	"github.com/rs/zerolog"
)

// ErrInvalidCount is returned when a caller asks for a non-positive number
// of recommendations. Callers decide how many posts they want; a count that
// cannot produce any is a configuration error, not an empty result.
var ErrInvalidCount = errors.New("recommendation count must be positive")

// recommendationService is the concrete implementation of
// RecommendationService
type recommendationService struct {
	posts         strategy.PostStore
	records       repository.RecommendationRepository
	opts          strategy.Options
	recordTimeout time.Duration
	log           zerolog.Logger
	wg            sync.WaitGroup
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(posts strategy.PostStore, records repository.RecommendationRepository, cfg *config.Config, log zerolog.Logger) RecommendationService {
	return &recommendationService{
		posts:         posts,
		records:       records,
		opts:          strategy.Options{EmbeddingModel: cfg.Recommend.EmbeddingModel},
		recordTimeout: cfg.Recommend.RecordTimeout,
		log:           log.With().Str("service", "recommendation").Logger(),
	}
}

// Recommend resolves the named strategy, runs its single retrieval query
// and, for known users, dispatches a fire-and-forget recording of the
// returned posts. The response never waits on the recording.
func (s *recommendationService) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	strat, err := strategy.New(spec.Name, s.posts, s.log, s.opts)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	posts, err := strat.Recommend(ctx, user, count, spec)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", spec.Name, err)
	}

	s.log.Debug().
		Str("strategy", string(spec.Name)).
		Str("post_id", spec.PostID).
		Str("context", spec.Context).
		Int("requested", count).
		Int("returned", len(posts)).
		Dur("elapsed", time.Since(started)).
		Msg("Strategy executed")

	if user != nil && len(posts) > 0 {
		postIDs := make([]string, len(posts))
		for i, p := range posts {
			postIDs[i] = p.ID
		}
		s.wg.Add(1)
		go s.record(user.ID, spec.Name, postIDs)
	}

	return posts, nil
}

// record upserts one recommendation counter per returned post. Failures are
// logged and dropped: losing an increment only risks one extra repeat of a
// recommendation, and must never fail the recommendation response.
func (s *recommendationService) record(userID string, strategyName models.StrategyName, postIDs []string) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.recordTimeout)
	defer cancel()

	if err := s.records.Upsert(ctx, userID, strategyName, postIDs); err != nil {
		s.log.Error().
			Err(err).
			Str("user_id", userID).
			Str("strategy", string(strategyName)).
			Int("posts", len(postIDs)).
			Msg("Failed to record recommendations")
	}
}

// Close drains in-flight recordings; called during graceful shutdown.
func (s *recommendationService) Close() {
	s.wg.Wait()
}
