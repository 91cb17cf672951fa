package models

import (
	"time"
)

// StrategyName identifies a recommendation strategy. The set is closed;
// unknown names are rejected at the boundary.
type StrategyName string

const (
	StrategyMoreFromAuthor          StrategyName = "moreFromAuthor"
	StrategyMoreFromTag             StrategyName = "moreFromTag"
	StrategyNewAndUpvotedInTag      StrategyName = "newAndUpvotedInTag"
	StrategyCollabFilter            StrategyName = "collabFilter"
	StrategyTagWeightedCollabFilter StrategyName = "tagWeightedCollabFilter"
	StrategyBestOf                  StrategyName = "bestOf"
	StrategyFeature                 StrategyName = "feature"
	StrategyWrapped                 StrategyName = "wrapped"
	StrategyDigestThisWeek          StrategyName = "digestThisWeek"
)

// ValidStrategies defines the closed set of strategy names.
var ValidStrategies = map[StrategyName]bool{
	StrategyMoreFromAuthor:          true,
	StrategyMoreFromTag:             true,
	StrategyNewAndUpvotedInTag:      true,
	StrategyCollabFilter:            true,
	StrategyTagWeightedCollabFilter: true,
	StrategyBestOf:                  true,
	StrategyFeature:                 true,
	StrategyWrapped:                 true,
	StrategyDigestThisWeek:          true,
}

// FeatureName identifies a composable scoring feature. The set is closed;
// unknown names are rejected at the boundary.
type FeatureName string

const (
	FeatureKarma            FeatureName = "karma"
	FeatureCurated          FeatureName = "curated"
	FeatureTagSimilarity    FeatureName = "tagSimilarity"
	FeatureCollabFilter     FeatureName = "collabFilter"
	FeatureTextSimilarity   FeatureName = "textSimilarity"
	FeatureSubscribedAuthor FeatureName = "subscribedAuthor"
	FeatureSubscribedTag    FeatureName = "subscribedTag"
)

// ValidFeatures defines the closed set of feature names.
var ValidFeatures = map[FeatureName]bool{
	FeatureKarma:            true,
	FeatureCurated:          true,
	FeatureTagSimilarity:    true,
	FeatureCollabFilter:     true,
	FeatureTextSimilarity:   true,
	FeatureSubscribedAuthor: true,
	FeatureSubscribedTag:    true,
}

// WeightedFeature pairs a feature name with its weight inside the generic
// feature strategy. A weight of zero disables the feature entirely.
type WeightedFeature struct {
	Feature FeatureName `json:"feature"`
	Weight  float64     `json:"weight"`
}

// StrategySpecification is the request-scoped configuration for a single
// recommend() call. Constructed fresh per request; never persisted as-is.
// Context is recorded for analytics only and has no effect on retrieval.
type StrategySpecification struct {
	Name     StrategyName      `json:"name"`
	PostID   string            `json:"post_id"`
	TagID    string            `json:"tag_id,omitempty"`
	Year     int               `json:"year,omitempty"`
	Bias     float64           `json:"bias,omitempty"`
	Features []WeightedFeature `json:"features,omitempty"`
	Context  string            `json:"context,omitempty"`
}

// PostRecommendation is the engine's only durable, mutable state: a counter
// of how many times a post has been shown to a user, keyed by
// (user_id, post_id). The count only ever increases.
type PostRecommendation struct {
	UserID              string       `json:"user_id" db:"user_id"`
	PostID              string       `json:"post_id" db:"post_id"`
	StrategyName        StrategyName `json:"strategy_name" db:"strategy_name"`
	RecommendationCount int          `json:"recommendation_count" db:"recommendation_count"`
	LastRecommendedAt   time.Time    `json:"last_recommended_at" db:"last_recommended_at"`
	CreatedAt           time.Time    `json:"created_at" db:"created_at"`
}
