package strategy

import (
	"context"

	"github.com/post-recommendations-api/internal/models"
)

// DigestThisWeekStrategy returns the top-scored posts of the currently open
// digest period. Unlike every other strategy its candidate set comes from a
// curated editorial list (digest_posts) rather than the generic post-filter
// pipeline, though the shared eligibility filters still apply on top.
type DigestThisWeekStrategy struct {
	base
}

func (s *DigestThisWeekStrategy) Name() models.StrategyName {
	return models.StrategyDigestThisWeek
}

func (s *DigestThisWeekStrategy) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	qb := s.candidateQuery(spec, filterOptions{user: user}).
		Join("JOIN digest_posts dp ON dp.post_id = p.id").
		Join(`JOIN digests d ON
  d.id = dp.digest_id AND
  d.end_date IS NULL`).
		OrderBy("p.base_score DESC").
		Limit("maxCount", count)

	return s.run(ctx, qb)
}
