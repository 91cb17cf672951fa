package strategy

import (
	"errors"
)

var (
	// ErrUnknownStrategy is returned for a name outside the closed strategy
	// set. Unknown names fail at the boundary, never silently default.
	ErrUnknownStrategy = errors.New("unknown recommendation strategy")

	// ErrMissingTagID is returned by strategies that require an explicit
	// tag id.
	ErrMissingTagID = errors.New("strategy requires a tag id")

	// ErrMissingYear is returned by the wrapped strategy when no year is
	// supplied.
	ErrMissingYear = errors.New("strategy requires a year")

	// ErrNoFeatures is returned by the feature strategy when the feature
	// list is empty.
	ErrNoFeatures = errors.New("feature strategy requires a non-empty feature list")
)
