package strategy

import (
	"context"

	"github.com/post-recommendations-api/internal/models"
)

// minPivotTagPostCount keeps the pivot away from near-empty tags.
const minPivotTagPostCount = 10

// MoreFromTagStrategy pivots on a single tag of the seed post: among the
// tags the seed is relevant to, it picks the one with the highest relevance
// weighted by inverse popularity, preferring specific tags over generic
// ones, then returns other posts relevant to that tag. Contextual.
type MoreFromTagStrategy struct {
	base
}

func (s *MoreFromTagStrategy) Name() models.StrategyName {
	return models.StrategyMoreFromTag
}

func (s *MoreFromTagStrategy) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	qb := s.candidateQuery(spec, filterOptions{user: user, contextual: true}).
		Join("JOIN posts seed ON seed.id = @seedPostId").
		Join(`JOIN LATERAL (
  SELECT tr.key AS tag_id
  FROM JSONB_EACH_TEXT(seed.tag_relevance) tr
  JOIN tags t ON t.id = tr.key AND t.deleted IS NOT TRUE
  WHERE tr.value::INTEGER >= 1
    AND t.post_count >= @minTagPostCount
  ORDER BY tr.value::INTEGER::FLOAT / t.post_count DESC, t.post_count ASC
  LIMIT 1
) pivot_tag ON TRUE`).
		Where("COALESCE((p.tag_relevance ->> pivot_tag.tag_id)::INTEGER, 0) >= 1").
		Bind("minTagPostCount", minPivotTagPostCount).
		OrderBy("p.score DESC").
		Limit("maxCount", count)

	return s.run(ctx, qb)
}

// NewAndUpvotedInTagStrategy is the recency-biased sibling of MoreFromTag:
// it requires an explicit tag id and restricts candidates to posts tagged
// with relevance >= 1 published within the last three months.
type NewAndUpvotedInTagStrategy struct {
	base
}

func (s *NewAndUpvotedInTagStrategy) Name() models.StrategyName {
	return models.StrategyNewAndUpvotedInTag
}

func (s *NewAndUpvotedInTagStrategy) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	if spec.TagID == "" {
		return nil, ErrMissingTagID
	}

	qb := s.candidateQuery(spec, filterOptions{user: user}).
		Where("COALESCE((p.tag_relevance ->> @tagId)::INTEGER, 0) >= 1").
		Where("p.posted_at > NOW() - INTERVAL '3 months'").
		Bind("tagId", spec.TagID).
		OrderBy("p.score DESC").
		Limit("maxCount", count)

	return s.run(ctx, qb)
}
