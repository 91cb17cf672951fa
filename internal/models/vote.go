package models

import (
	"time"
)

// VoteCollectionPosts is the collection discriminator for votes cast on
// posts. Votes on comments share the same table but never feed the
// collaborative filter.
const VoteCollectionPosts = "Posts"

// Vote relates a user to a document they voted on. Immutable once cast
// except for cancellation. The engine only consumes votes in aggregate, as
// per-post voter sets.
type Vote struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	PostID         string    `json:"post_id" db:"post_id"`
	CollectionName string    `json:"collection_name" db:"collection_name"`
	Cancelled      bool      `json:"cancelled" db:"cancelled"`
	Power          float64   `json:"power" db:"power"`
	VotedAt        time.Time `json:"voted_at" db:"voted_at"`
}

// ReadStatus marks a post as consumed by a user. Written by the
// reading-tracking collaborator; used here only as an exclusion filter.
type ReadStatus struct {
	UserID      string    `json:"user_id" db:"user_id"`
	PostID      string    `json:"post_id" db:"post_id"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}
