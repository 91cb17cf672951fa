package feature

import (
	"fmt"

	"github.com/post-recommendations-api/internal/models"
)

// registry is the closed lookup from feature name to implementation.
// Adding a feature means adding one implementation and one entry here; the
// feature strategy itself never changes.
var registry = map[models.FeatureName]Feature{
	models.FeatureKarma:            &KarmaFeature{Pivot: DefaultKarmaPivot},
	models.FeatureCurated:          &CuratedFeature{},
	models.FeatureTagSimilarity:    &TagSimilarityFeature{},
	models.FeatureCollabFilter:     &CollabFilterFeature{},
	models.FeatureTextSimilarity:   &TextSimilarityFeature{},
	models.FeatureSubscribedAuthor: &SubscribedAuthorFeature{},
	models.FeatureSubscribedTag:    &SubscribedTagFeature{},
}

// Get resolves a feature by name, rejecting names outside the closed set.
func Get(name models.FeatureName) (Feature, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	return f, nil
}
