package strategy

import (
	"fmt"

	"github.com/post-recommendations-api/internal/models"
	"github.com/rs/zerolog"
)

// Options carries deployment-level tuning shared by strategies.
type Options struct {
	// EmbeddingModel selects which embedding rows the text-similarity
	// feature joins against.
	EmbeddingModel string
}

// deps is what every strategy constructor receives.
type deps struct {
	store PostStore
	log   zerolog.Logger
	opts  Options
}

// constructors is the closed table of strategy types, keyed by name.
var constructors = map[models.StrategyName]func(d deps) Strategy{
	models.StrategyMoreFromAuthor: func(d deps) Strategy {
		return &MoreFromAuthorStrategy{base: d.newBase("moreFromAuthor")}
	},
	models.StrategyMoreFromTag: func(d deps) Strategy {
		return &MoreFromTagStrategy{base: d.newBase("moreFromTag")}
	},
	models.StrategyNewAndUpvotedInTag: func(d deps) Strategy {
		return &NewAndUpvotedInTagStrategy{base: d.newBase("newAndUpvotedInTag")}
	},
	models.StrategyCollabFilter: func(d deps) Strategy {
		return &CollabFilterStrategy{base: d.newBase("collabFilter")}
	},
	models.StrategyTagWeightedCollabFilter: func(d deps) Strategy {
		return &CollabFilterStrategy{base: d.newBase("tagWeightedCollabFilter"), tagWeighted: true}
	},
	models.StrategyBestOf: func(d deps) Strategy {
		return NewBestOfStrategy(d)
	},
	models.StrategyFeature: func(d deps) Strategy {
		return &FeatureStrategy{base: d.newBase("feature"), opts: d.opts}
	},
	models.StrategyWrapped: func(d deps) Strategy {
		return &WrappedStrategy{base: d.newBase("wrapped"), opts: d.opts}
	},
	models.StrategyDigestThisWeek: func(d deps) Strategy {
		return &DigestThisWeekStrategy{base: d.newBase("digestThisWeek")}
	},
}

func (d deps) newBase(name string) base {
	return base{
		store: d.store,
		log:   d.log.With().Str("strategy", name).Logger(),
	}
}

// New resolves a strategy by name. Names outside the closed set are
// rejected here, at the boundary, rather than at first use.
func New(name models.StrategyName, store PostStore, log zerolog.Logger, opts Options) (Strategy, error) {
	construct, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return construct(deps{store: store, log: log, opts: opts}), nil
}
