package validation

import (
	"strconv"

	"github.com/post-recommendations-api/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidateSpecification checks a strategy specification at the API
// boundary: closed-set membership for strategy and feature names, the
// presence of strategy-specific required parameters, and sane weights.
// Invalid specs fail fast here instead of being silently defaulted.
func ValidateSpecification(spec *models.StrategySpecification) []ValidationError {
	var errors []ValidationError

	if spec.Name == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "strategy name is required"})
	} else if !models.ValidStrategies[spec.Name] {
		errors = append(errors, ValidationError{Field: "name", Message: "unknown strategy", Value: string(spec.Name)})
	}

	if spec.PostID == "" && requiresSeedPost(spec.Name) {
		errors = append(errors, ValidationError{Field: "post_id", Message: "post_id is required for this strategy"})
	}

	switch spec.Name {
	case models.StrategyNewAndUpvotedInTag:
		if spec.TagID == "" {
			errors = append(errors, ValidationError{Field: "tag_id", Message: "tag_id is required for this strategy"})
		}
	case models.StrategyWrapped:
		if spec.Year == 0 {
			errors = append(errors, ValidationError{Field: "year", Message: "year is required for this strategy"})
		}
	case models.StrategyFeature:
		if len(spec.Features) == 0 {
			errors = append(errors, ValidationError{Field: "features", Message: "a non-empty feature list is required"})
		}
	}

	for i, wf := range spec.Features {
		// Zero-weight entries are never consulted by the engine, so their
		// names are not held to the closed set.
		if wf.Weight != 0 && !models.ValidFeatures[wf.Feature] {
			errors = append(errors, ValidationError{
				Field:   fieldAt("features", i, "feature"),
				Message: "unknown feature",
				Value:   string(wf.Feature),
			})
		}
		if wf.Weight < 0 {
			errors = append(errors, ValidationError{
				Field:   fieldAt("features", i, "weight"),
				Message: "weight must not be negative",
				Value:   wf.Weight,
			})
		}
	}

	if spec.Year < 0 {
		errors = append(errors, ValidationError{Field: "year", Message: "year must not be negative", Value: spec.Year})
	}

	return errors
}

// requiresSeedPost reports whether a strategy is relative to a seed post.
// Time-windowed and editorial strategies can run without one.
func requiresSeedPost(name models.StrategyName) bool {
	switch name {
	case models.StrategyNewAndUpvotedInTag,
		models.StrategyWrapped,
		models.StrategyDigestThisWeek,
		models.StrategyBestOf:
		return false
	}
	return true
}

func fieldAt(list string, index int, field string) string {
	// e.g. features[2].weight
	return list + "[" + strconv.Itoa(index) + "]." + field
}
