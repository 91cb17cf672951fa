package strategy_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/post-recommendations-api/internal/feature"
	"github.com/post-recommendations-api/internal/mocks"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/strategy"
	"github.com/rs/zerolog"
)

func TestFeatureStrategy_ZeroWeightFeaturesLeaveNoTrace(t *testing.T) {
	spec := models.StrategySpecification{
		Name:   models.StrategyFeature,
		PostID: "seed1",
		Features: []models.WeightedFeature{
			{Feature: models.FeatureKarma, Weight: 1},
			{Feature: models.FeatureTextSimilarity, Weight: 0},
			{Feature: models.FeatureCollabFilter, Weight: 0},
		},
	}
	compiled := runStrategy(t, models.StrategyFeature, nil, 5, spec)

	if strings.Contains(compiled.SQL, "post_embeddings") {
		t.Errorf("Zero-weight text similarity must contribute no join:\n%s", compiled.SQL)
	}
	if strings.Contains(compiled.SQL, "HASHTEXT") {
		t.Errorf("Zero-weight collab filter must contribute no join:\n%s", compiled.SQL)
	}
	if hasArg(compiled, testOpts.EmbeddingModel) {
		t.Errorf("Zero-weight text similarity must bind no arguments: %v", compiled.Args)
	}
	if !hasArg(compiled, feature.DefaultKarmaPivot) {
		t.Errorf("Active karma feature should bind its pivot: %v", compiled.Args)
	}
}

func TestFeatureStrategy_ZeroWeightMakesNonexistentFeatureHarmless(t *testing.T) {
	// A weight of zero means the feature is never consulted, so even a name
	// outside the closed set passes through.
	spec := models.StrategySpecification{
		Name:   models.StrategyFeature,
		PostID: "seed1",
		Features: []models.WeightedFeature{
			{Feature: models.FeatureKarma, Weight: 1},
			{Feature: "noSuchFeature", Weight: 0},
		},
	}
	compiled := runStrategy(t, models.StrategyFeature, nil, 5, spec)
	if strings.Contains(compiled.SQL, "noSuchFeature") {
		t.Errorf("Skipped feature leaked into the query:\n%s", compiled.SQL)
	}
}

func TestFeatureStrategy_RejectsUnknownActiveFeature(t *testing.T) {
	store := mocks.NewMockPostRepository()
	strat, err := strategy.New(models.StrategyFeature, store, zerolog.Nop(), testOpts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	spec := models.StrategySpecification{
		Name:     models.StrategyFeature,
		PostID:   "seed1",
		Features: []models.WeightedFeature{{Feature: "noSuchFeature", Weight: 1}},
	}
	_, err = strat.Recommend(context.Background(), nil, 5, spec)
	if !errors.Is(err, feature.ErrUnknownFeature) {
		t.Fatalf("Expected ErrUnknownFeature, got %v", err)
	}
	if len(store.Queries) != 0 {
		t.Errorf("Unknown feature must fail before any query runs")
	}
}

func TestFeatureStrategy_OverFetchesBeforeRepeatCap(t *testing.T) {
	user := &models.User{ID: "u1"}
	spec := models.StrategySpecification{
		Name:     models.StrategyFeature,
		PostID:   "seed1",
		Features: []models.WeightedFeature{{Feature: models.FeatureKarma, Weight: 1}},
	}
	compiled := runStrategy(t, models.StrategyFeature, user, 4, spec)

	if !strings.Contains(compiled.SQL, "FROM (") {
		t.Errorf("Feature strategy should rank in an inner subquery:\n%s", compiled.SQL)
	}
	if !hasArg(compiled, 40) {
		t.Errorf("Inner query should over-fetch 10x the requested count: %v", compiled.Args)
	}
	if !hasArg(compiled, 4) {
		t.Errorf("Outer query should truncate to the requested count: %v", compiled.Args)
	}
	if !hasArg(compiled, strategy.DefaultMaxRecommendationCount) {
		t.Errorf("Outer query should apply the repeat cap: %v", compiled.Args)
	}

	// The repeat-cap filter belongs to the outer query only, after ranking.
	innerEnd := strings.Index(compiled.SQL, ") p")
	if innerEnd < 0 {
		t.Fatalf("Outer wrapper not found:\n%s", compiled.SQL)
	}
	if strings.Contains(compiled.SQL[:innerEnd], "post_recommendations") {
		t.Errorf("Repeat cap must not constrain the inner ranking:\n%s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL[innerEnd:], "post_recommendations") {
		t.Errorf("Repeat cap missing from the outer query:\n%s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL[:innerEnd], "read_statuses") {
		t.Errorf("Already-read exclusion stays in the inner query:\n%s", compiled.SQL)
	}
}

func TestFeatureStrategy_CompositeScoreSumsWeightedFeatures(t *testing.T) {
	spec := models.StrategySpecification{
		Name:   models.StrategyFeature,
		PostID: "seed1",
		Features: []models.WeightedFeature{
			{Feature: models.FeatureKarma, Weight: 0.75},
			{Feature: models.FeatureCurated, Weight: 0.25},
		},
	}
	compiled := runStrategy(t, models.StrategyFeature, nil, 5, spec)

	if !strings.Contains(compiled.SQL, "composite_score") {
		t.Errorf("Composite score column missing:\n%s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, "0.75") || !strings.Contains(compiled.SQL, "0.25") {
		t.Errorf("Feature weights missing from the score expression:\n%s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, "ORDER BY p.composite_score DESC") {
		t.Errorf("Results must rank by the composite score:\n%s", compiled.SQL)
	}
}

func TestBestOf_UsesKarmaAndCuratedPreset(t *testing.T) {
	compiled := runStrategy(t, models.StrategyBestOf, nil, 5, specFor(models.StrategyBestOf))

	if !hasArg(compiled, feature.DefaultKarmaPivot) {
		t.Errorf("Karma pivot not bound: %v", compiled.Args)
	}
	if !strings.Contains(compiled.SQL, "curated_date") {
		t.Errorf("Curated bonus missing:\n%s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, "0.05") {
		t.Errorf("Curated weight missing:\n%s", compiled.SQL)
	}
	// The preset is exactly karma + curated; nothing else joins in.
	if strings.Contains(compiled.SQL, "votes") || strings.Contains(compiled.SQL, "post_embeddings") {
		t.Errorf("Preset must not pull in other features:\n%s", compiled.SQL)
	}
}

func TestWrapped_RestrictsToYearWithRaisedCap(t *testing.T) {
	user := &models.User{ID: "u1"}
	spec := specFor(models.StrategyWrapped)
	compiled := runStrategy(t, models.StrategyWrapped, user, 10, spec)

	if !strings.Contains(compiled.SQL, "MAKE_DATE(") {
		t.Errorf("Year window missing:\n%s", compiled.SQL)
	}
	if !strings.Contains(compiled.SQL, "INTERVAL '1 year'") {
		t.Errorf("Year window upper bound missing:\n%s", compiled.SQL)
	}
	if !hasArg(compiled, spec.Year) {
		t.Errorf("Year not bound: %v", compiled.Args)
	}
	if !hasArg(compiled, strategy.WrappedMaxRecommendationCount) {
		t.Errorf("Wrapped repeat cap not bound: %v", compiled.Args)
	}
}
