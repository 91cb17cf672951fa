// Package feature provides the composable scoring contributors used by the
// generic feature strategy. Each feature supplies an optional join clause,
// an optional filter clause, a score expression and named arguments; the
// strategy combines active features into a single candidate query.
package feature

import (
	"errors"
)

// ErrUnknownFeature is returned when a feature name outside the closed set
// reaches the registry.
var ErrUnknownFeature = errors.New("unknown feature")

// Params carries the request-scoped inputs a feature may interpolate into
// its fragments. Features themselves are stateless.
type Params struct {
	// SeedPostID is the post the recommendation is relative to.
	SeedPostID string
	// UserID is the requesting user, or "" for anonymous requests.
	UserID string
	// EmbeddingModel selects which embedding rows the text-similarity
	// feature joins against.
	EmbeddingModel string
	// Bias is a strategy-supplied blend factor; most features ignore it.
	Bias float64
}

// Feature is one named scoring contributor. All built-in score expressions
// are normalized (or near-normalized) to [0, 1] so weighted sums stay
// comparable across features.
//
// A feature given weight zero must never be consulted at all: no join, no
// filter, no argument binding.
type Feature interface {
	// Name returns the registry key.
	Name() string
	// Join returns a join fragment, or "" when the feature needs none.
	Join(p Params) string
	// Filter returns a filter fragment, or "" when the feature needs none.
	Filter(p Params) string
	// Score returns the score expression.
	Score(p Params) string
	// Args returns the named arguments the fragments reference.
	Args(p Params) map[string]any
}
