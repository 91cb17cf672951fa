package strategy

import (
	"context"

	"github.com/post-recommendations-api/internal/models"
)

// MoreFromAuthorStrategy returns other posts by the seed post's authors: the
// primary author plus co-authors that are confirmed or covered by a standing
// co-author permission grant. Candidates match when any of those authors
// wrote or confirmed-co-authored them. Contextual: shown next to the post
// being read, so the read/repeat-cap exclusions do not apply.
type MoreFromAuthorStrategy struct {
	base
}

func (s *MoreFromAuthorStrategy) Name() models.StrategyName {
	return models.StrategyMoreFromAuthor
}

func (s *MoreFromAuthorStrategy) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	qb := s.candidateQuery(spec, filterOptions{user: user, contextual: true}).
		Join("JOIN posts seed ON seed.id = @seedPostId").
		Where(`EXISTS (
  SELECT 1
  FROM (
    SELECT seed.user_id AS author_id
    UNION
    SELECT ca ->> 'userId' AS author_id
    FROM JSONB_ARRAY_ELEMENTS(seed.coauthor_statuses) ca
    WHERE (ca ->> 'confirmed')::BOOLEAN IS TRUE OR seed.has_coauthor_permission IS TRUE
  ) seed_authors
  WHERE seed_authors.author_id = p.user_id
    OR EXISTS (
      SELECT 1
      FROM JSONB_ARRAY_ELEMENTS(p.coauthor_statuses) pca
      WHERE pca ->> 'userId' = seed_authors.author_id
        AND ((pca ->> 'confirmed')::BOOLEAN IS TRUE OR p.has_coauthor_permission IS TRUE)
    )
)`).
		OrderBy("p.score DESC").
		Limit("maxCount", count)

	return s.run(ctx, qb)
}
