package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/post-recommendations-api/internal/database"
	"github.com/post-recommendations-api/internal/models"
)

// recommendationRepo is the concrete implementation of
// RecommendationRepository
type recommendationRepo struct {
	db *database.DB
}

// NewRecommendationRepo creates a new recommendation record repository
func NewRecommendationRepo(db *database.DB) RecommendationRepository {
	return &recommendationRepo{db: db}
}

// Upsert records one recommendation of each post to the user: insert with
// count 1 on first sight, otherwise increment the counter and refresh the
// timestamp, keeping the most recent strategy name. The increment happens
// inside the INSERT ... ON CONFLICT statement, so concurrent recordings for
// the same (user, post) pair never lose an update.
func (r *recommendationRepo) Upsert(ctx context.Context, userID string, strategyName models.StrategyName, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO post_recommendations
			(user_id, post_id, strategy_name, recommendation_count, last_recommended_at, created_at)
		VALUES ($1, $2, $3, 1, NOW(), NOW())
		ON CONFLICT (user_id, post_id) DO UPDATE SET
			recommendation_count = post_recommendations.recommendation_count + 1,
			strategy_name = EXCLUDED.strategy_name,
			last_recommended_at = NOW()
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, postID := range postIDs {
		if _, err := stmt.ExecContext(ctx, userID, postID, string(strategyName)); err != nil {
			return fmt.Errorf("upsert recommendation for post %s: %w", postID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves the recommendation record for a (user, post) pair, or nil
// when the post has never been recommended to the user
func (r *recommendationRepo) Get(ctx context.Context, userID, postID string) (*models.PostRecommendation, error) {
	var rec models.PostRecommendation
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, post_id, strategy_name, recommendation_count,
		       last_recommended_at, created_at
		FROM post_recommendations
		WHERE user_id = $1 AND post_id = $2
	`, userID, postID).Scan(
		&rec.UserID, &rec.PostID, &rec.StrategyName, &rec.RecommendationCount,
		&rec.LastRecommendedAt, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Count returns the total number of recommendation records
func (r *recommendationRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM post_recommendations").Scan(&count)
	return count, err
}
