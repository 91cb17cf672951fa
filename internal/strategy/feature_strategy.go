package strategy

import (
	"context"

	"github.com/post-recommendations-api/internal/feature"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/query"
)

// overFetchFactor is how many raw candidates the feature strategy ranks for
// each requested result. The repeat-cap filter is applied after ranking, so
// over-fetching absorbs its losses without under-filling the result.
const overFetchFactor = 10

// FeatureStrategy composes an arbitrary weighted feature set into a single
// candidate query whose ordering is the weighted sum of the active features'
// scores. Features with weight zero are omitted entirely: no join, no
// filter, no argument binding.
type FeatureStrategy struct {
	base
	opts Options
}

func (s *FeatureStrategy) Name() models.StrategyName {
	return models.StrategyFeature
}

func (s *FeatureStrategy) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	return s.recommendWeighted(ctx, user, count, spec, spec.Features, DefaultMaxRecommendationCount, nil)
}

// recommendWeighted builds the two-level query: an inner subquery ranks
// 10x count candidates by the composite feature score, the outer query drops
// candidates at the repeat cap and truncates to count. restrict, when
// non-nil, narrows the inner candidate set further (used by the wrapped
// strategy's year window).
func (s *FeatureStrategy) recommendWeighted(
	ctx context.Context,
	user *models.User,
	count int,
	spec models.StrategySpecification,
	features []models.WeightedFeature,
	maxCount int,
	restrict func(*query.Builder),
) ([]models.Post, error) {
	params := feature.Params{
		SeedPostID:     spec.PostID,
		UserID:         userID(user),
		EmbeddingModel: s.opts.EmbeddingModel,
		Bias:           spec.Bias,
	}

	inner := s.candidateQuery(spec, filterOptions{user: user, deferRepeatCap: true})

	active := 0
	for _, wf := range features {
		if wf.Weight == 0 {
			continue
		}
		f, err := feature.Get(wf.Feature)
		if err != nil {
			return nil, err
		}
		inner.Join(f.Join(params)).
			Where(f.Filter(params)).
			Score(wf.Weight, f.Score(params)).
			BindAll(f.Args(params))
		active++
	}
	if active == 0 {
		return nil, ErrNoFeatures
	}

	if restrict != nil {
		restrict(inner)
	}

	inner.Select(postColumns + ",\n  (" + inner.ScoreExpression() + ") AS composite_score").
		OrderBy("composite_score DESC").
		Limit("overFetchCount", count*overFetchFactor)

	outer := "SELECT " + postColumns + "\nFROM (\n" + inner.SQL() + "\n) p"
	args := inner.Args()
	if user != nil {
		outer += `
LEFT JOIN post_recommendations pr ON
  pr.post_id = p.id AND
  pr.user_id = @recUserId
WHERE COALESCE(pr.recommendation_count, 0) < @maxRecommendationCount`
		args["recUserId"] = user.ID
		args["maxRecommendationCount"] = maxCount
	}
	outer += "\nORDER BY p.composite_score DESC\nLIMIT @maxCount"
	args["maxCount"] = count

	compiled, err := query.Compile(outer, args)
	if err != nil {
		return nil, err
	}
	return s.store.SelectPosts(ctx, compiled)
}

// bestOfFeatures is the canonical "generically good content" composition:
// karma dominates, curation adds a small editorial bonus.
var bestOfFeatures = []models.WeightedFeature{
	{Feature: models.FeatureKarma, Weight: 1},
	{Feature: models.FeatureCurated, Weight: 0.05},
}

// BestOfStrategy is the canonical feature-strategy preset, used as a
// fallback and as the core of the yearly wrapped digest.
type BestOfStrategy struct {
	inner *FeatureStrategy
}

// NewBestOfStrategy builds the preset around a feature strategy.
func NewBestOfStrategy(d deps) Strategy {
	return &BestOfStrategy{
		inner: &FeatureStrategy{base: d.newBase("bestOf"), opts: d.opts},
	}
}

func (s *BestOfStrategy) Name() models.StrategyName {
	return models.StrategyBestOf
}

func (s *BestOfStrategy) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	return s.inner.recommendWeighted(ctx, user, count, spec, bestOfFeatures, DefaultMaxRecommendationCount, nil)
}

// WrappedStrategy is the time-windowed variant of BestOf: the same
// karma+curated composition restricted to posts published in a given
// calendar year, with the repeat cap raised to let a yearly digest mention
// more posts.
type WrappedStrategy struct {
	base
	opts Options
}

func (s *WrappedStrategy) Name() models.StrategyName {
	return models.StrategyWrapped
}

func (s *WrappedStrategy) Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error) {
	if spec.Year == 0 {
		return nil, ErrMissingYear
	}

	fs := &FeatureStrategy{base: s.base, opts: s.opts}
	return fs.recommendWeighted(ctx, user, count, spec, bestOfFeatures, WrappedMaxRecommendationCount, func(qb *query.Builder) {
		qb.Where("p.posted_at >= MAKE_DATE(@wrappedYear, 1, 1)").
			Where("p.posted_at < MAKE_DATE(@wrappedYear, 1, 1) + INTERVAL '1 year'").
			Bind("wrappedYear", spec.Year)
	})
}
