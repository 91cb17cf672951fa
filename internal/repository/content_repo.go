package repository

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/post-recommendations-api/internal/database"
	"github.com/post-recommendations-api/internal/models"
)

// contentRepo writes the externally-owned relations the engine reads. Used
// by the seed tool and integration tests only.
type contentRepo struct {
	db *database.DB
}

// NewContentRepo creates a new content repository
func NewContentRepo(db *database.DB) ContentRepository {
	return &contentRepo{db: db}
}

func (r *contentRepo) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, deleted, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.DisplayName, user.Deleted, user.CreatedAt)
	return err
}

func (r *contentRepo) CreateTag(ctx context.Context, tag *models.Tag) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, slug, post_count, deleted)
		VALUES ($1, $2, $3, $4, $5)
	`, tag.ID, tag.Name, tag.Slug, tag.PostCount, tag.Deleted)
	return err
}

func (r *contentRepo) CreateVote(ctx context.Context, vote *models.Vote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO votes (id, user_id, post_id, collection_name, cancelled, power, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, vote.ID, vote.UserID, vote.PostID, vote.CollectionName, vote.Cancelled, vote.Power, vote.VotedAt)
	return err
}

func (r *contentRepo) MarkRead(ctx context.Context, status *models.ReadStatus) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO read_statuses (user_id, post_id, is_read, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, post_id) DO UPDATE SET
			is_read = EXCLUDED.is_read,
			last_updated = EXCLUDED.last_updated
	`, status.UserID, status.PostID, status.IsRead, status.LastUpdated)
	return err
}

func (r *contentRepo) CreateEmbedding(ctx context.Context, embedding *models.PostEmbedding) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO post_embeddings (post_id, model, embeddings, created_at)
		VALUES ($1, $2, $3, $4)
	`, embedding.PostID, embedding.Model, pq.Array(embedding.Embeddings), time.Now())
	return err
}

func (r *contentRepo) CreateDigest(ctx context.Context, digest *models.Digest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO digests (id, num, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, digest.ID, digest.Num, digest.StartDate, digest.EndDate, time.Now())
	return err
}

func (r *contentRepo) AddPostToDigest(ctx context.Context, digestID, postID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO digest_posts (digest_id, post_id)
		VALUES ($1, $2)
	`, digestID, postID)
	return err
}

func (r *contentRepo) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, user_id, document_id, collection_name, type, state, deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sub.ID, sub.UserID, sub.DocumentID, sub.CollectionName, sub.Type, sub.State, sub.Deleted, sub.CreatedAt)
	return err
}
