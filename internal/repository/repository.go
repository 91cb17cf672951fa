package repository

import (
	"context"

	"github.com/post-recommendations-api/internal/database"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/query"
)

// PostRepository reads candidate posts. SelectPosts is the single retrieval
// entry point the strategies drive; the rest supports seeding and ops.
type PostRepository interface {
	SelectPosts(ctx context.Context, q *query.Compiled) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Count(ctx context.Context) (int, error)
}

// RecommendationRepository owns the engine's durable state: per
// (user, post) counters of how often a post has been recommended. Upsert
// must be atomic at the storage layer so concurrent recordings never lose
// an increment.
type RecommendationRepository interface {
	Upsert(ctx context.Context, userID string, strategyName models.StrategyName, postIDs []string) error
	Get(ctx context.Context, userID, postID string) (*models.PostRecommendation, error)
	Count(ctx context.Context) (int, error)
}

// ContentRepository writes the relations owned by external collaborators
// (authoring, voting, reading-tracking, embeddings, digests, notification
// subscriptions). The engine itself only reads them; these writers exist
// for the seed tool and the integration tests.
type ContentRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	CreateTag(ctx context.Context, tag *models.Tag) error
	CreateVote(ctx context.Context, vote *models.Vote) error
	MarkRead(ctx context.Context, status *models.ReadStatus) error
	CreateEmbedding(ctx context.Context, embedding *models.PostEmbedding) error
	CreateDigest(ctx context.Context, digest *models.Digest) error
	AddPostToDigest(ctx context.Context, digestID, postID string) error
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Post           PostRepository
	Recommendation RecommendationRepository
	Content        ContentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Post:           NewPostRepo(db),
		Recommendation: NewRecommendationRepo(db),
		Content:        NewContentRepo(db),
	}
}
