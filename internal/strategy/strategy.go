// Package strategy implements the retrieval strategies of the
// recommendation engine. Every strategy assembles a single candidate query
// over posts, built from shared eligibility filters plus its own joins and
// score expression, and runs it through the PostStore.
package strategy

import (
	"context"

	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/query"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRecommendationCount is the repeat cap: once a post has been
	// recommended to a user this many times, default-filtered strategies
	// stop surfacing it to that user.
	DefaultMaxRecommendationCount = 3

	// WrappedMaxRecommendationCount is the raised repeat cap for the yearly
	// wrapped digest, which legitimately revisits more posts.
	WrappedMaxRecommendationCount = 5
)

// postColumns is the candidate projection every strategy selects. The
// PostStore scans rows in exactly this order.
const postColumns = `p.id, p.user_id, p.coauthor_statuses, p.has_coauthor_permission,
  p.title, p.slug, p.status, p.draft, p.deleted_draft, p.is_future,
  p.shortform, p.is_event, p.hidden_related_question, p.group_id,
  p.base_score, p.score, p.tag_relevance, p.curated_date, p.posted_at,
  p.created_at`

// PostStore executes a compiled candidate query and returns the selected
// posts. Implemented by the Postgres post repository.
type PostStore interface {
	SelectPosts(ctx context.Context, q *query.Compiled) ([]models.Post, error)
}

// Strategy is a named algorithm for selecting and ranking candidate posts.
type Strategy interface {
	// Name returns the registry key.
	Name() models.StrategyName
	// Recommend returns up to count ranked candidates for the given spec.
	// user may be nil for anonymous requests.
	Recommend(ctx context.Context, user *models.User, count int, spec models.StrategySpecification) ([]models.Post, error)
}

// filterOptions controls which of the shared filters a candidate query
// carries.
type filterOptions struct {
	user *models.User
	// contextual strategies ("more like the post you are reading") skip the
	// already-read and repeat-cap exclusions: re-surfacing a related post
	// in context is not noise.
	contextual bool
	// maxCount is the repeat cap applied under the default filter path.
	maxCount int
	// deferRepeatCap keeps the already-read exclusion but leaves the
	// repeat-cap filter to an outer query, as the feature strategy does
	// after over-fetching.
	deferRepeatCap bool
}

// base carries the dependencies shared by all strategies.
type base struct {
	store PostStore
	log   zerolog.Logger
}

// candidateQuery starts a query restricted to recommendable posts: approved,
// not draft, not future-dated, not soft-deleted, not shortform, not a hidden
// related question, not scoped to a private group, and never the seed post
// itself. Default-mode queries for a known user additionally exclude posts
// already read and posts at the repeat cap.
func (b *base) candidateQuery(spec models.StrategySpecification, opts filterOptions) *query.Builder {
	qb := query.NewBuilder("posts p").
		Select(postColumns).
		Where("p.id <> @seedPostId").
		Where("p.status = @approvedStatus").
		Where("p.draft IS NOT TRUE").
		Where("p.deleted_draft IS NOT TRUE").
		Where("p.is_future IS NOT TRUE").
		Where("p.shortform IS NOT TRUE").
		Where("p.hidden_related_question IS NOT TRUE").
		Where("p.group_id IS NULL").
		Bind("seedPostId", spec.PostID).
		Bind("approvedStatus", models.PostStatusApproved)

	if !opts.contextual && opts.user != nil {
		qb.Join(`LEFT JOIN read_statuses rs ON
  rs.post_id = p.id AND
  rs.user_id = @recUserId`).
			Where("rs.is_read IS NOT TRUE").
			Bind("recUserId", opts.user.ID)

		if !opts.deferRepeatCap {
			maxCount := opts.maxCount
			if maxCount <= 0 {
				maxCount = DefaultMaxRecommendationCount
			}
			qb.Join(`LEFT JOIN post_recommendations pr ON
  pr.post_id = p.id AND
  pr.user_id = @recUserId`).
				Where("COALESCE(pr.recommendation_count, 0) < @maxRecommendationCount").
				Bind("maxRecommendationCount", maxCount)
		}
	}

	return qb
}

// run compiles and executes a builder.
func (b *base) run(ctx context.Context, qb *query.Builder) ([]models.Post, error) {
	compiled, err := qb.Compile()
	if err != nil {
		return nil, err
	}
	return b.store.SelectPosts(ctx, compiled)
}

// userID returns the id of a possibly-nil user.
func userID(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}
