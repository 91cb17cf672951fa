package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/post-recommendations-api/internal/database"
	"github.com/post-recommendations-api/internal/models"
	"github.com/post-recommendations-api/internal/query"
)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// SelectPosts runs a compiled candidate query. The query must project the
// shared post column list; rows are scanned in that order.
func (r *postRepo) SelectPosts(ctx context.Context, q *query.Compiled) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("candidate query failed: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// GetByID retrieves a post by ID
func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, coauthor_statuses, has_coauthor_permission,
		       title, slug, status, draft, deleted_draft, is_future,
		       shortform, is_event, hidden_related_question, group_id,
		       base_score, score, tag_relevance, curated_date, posted_at,
		       created_at
		FROM posts WHERE id = $1
	`, id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Create inserts a new post (seed tool and tests only; production posts are
// written by the authoring subsystem)
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	coauthorsJSON, _ := json.Marshal(post.CoauthorStatuses)
	if post.CoauthorStatuses == nil {
		coauthorsJSON = []byte("[]")
	}
	tagRelevanceJSON, _ := json.Marshal(post.TagRelevance)
	if post.TagRelevance == nil {
		tagRelevanceJSON = []byte("{}")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, coauthor_statuses, has_coauthor_permission,
			title, slug, status, draft, deleted_draft, is_future,
			shortform, is_event, hidden_related_question, group_id,
			base_score, score, tag_relevance, curated_date, posted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		post.ID, post.UserID, coauthorsJSON, post.HasCoauthorPermission,
		post.Title, post.Slug, post.Status, post.Draft, post.DeletedDraft, post.IsFuture,
		post.Shortform, post.IsEvent, post.HiddenRelatedQuestion, post.GroupID,
		post.BaseScore, post.Score, tagRelevanceJSON, post.CuratedDate, post.PostedAt,
		time.Now(),
	)
	return err
}

// Count returns the total number of posts
func (r *postRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var coauthorsJSON, tagRelevanceJSON []byte
	var groupID sql.NullString
	var curatedDate sql.NullTime

	err := row.Scan(
		&post.ID, &post.UserID, &coauthorsJSON, &post.HasCoauthorPermission,
		&post.Title, &post.Slug, &post.Status, &post.Draft, &post.DeletedDraft, &post.IsFuture,
		&post.Shortform, &post.IsEvent, &post.HiddenRelatedQuestion, &groupID,
		&post.BaseScore, &post.Score, &tagRelevanceJSON, &curatedDate, &post.PostedAt,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(coauthorsJSON, &post.CoauthorStatuses)
	json.Unmarshal(tagRelevanceJSON, &post.TagRelevance)
	if groupID.Valid {
		post.GroupID = &groupID.String
	}
	if curatedDate.Valid {
		post.CuratedDate = &curatedDate.Time
	}

	return &post, nil
}
