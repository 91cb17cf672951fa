package strategy

import (
	"context"

	"github.com/post-recommendations-api/internal/feature"
	"github.com/post-recommendations-api/internal/models"
)

// minCollabFilterBaseScore keeps voter-overlap recommendations away from
// low-signal posts.
const minCollabFilterBaseScore = 10

// CollabFilterStrategy wraps the collaborative-filter feature directly as a
// dedicated join/score instead of going through the generic feature
// strategy. The tag-weighted variant additionally blends in tag similarity,
// scaled by the spec's bias.
type CollabFilterStrategy struct {
	base
	tagWeighted bool
}

func (s *CollabFilterStrategy) Name() models.StrategyName {
	if s.tagWeighted {
		return models.StrategyTagWeightedCollabFilter
	}
	return models.StrategyCollabFilter
}

func (s *CollabFilterStrategy) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	collab := &feature.CollabFilterFeature{}
	params := feature.Params{SeedPostID: spec.PostID, UserID: userID(user)}

	score := collab.Score(params)
	qb := s.candidateQuery(spec, filterOptions{user: user}).
		Join(collab.Join(params)).
		Where("p.base_score >= @minBaseScore").
		Bind("minBaseScore", minCollabFilterBaseScore).
		BindAll(collab.Args(params)).
		Limit("maxCount", count)

	if s.tagWeighted {
		bias := spec.Bias
		if bias == 0 {
			bias = 1
		}
		score = "(" + score + ") + @collabBias * post_tag_similarity(@seedPostId, p.id)"
		qb.Bind("collabBias", bias)
	}
	qb.OrderBy("(" + score + ") DESC")

	return s.run(ctx, qb)
}
