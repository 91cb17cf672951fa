package models

import (
	"time"
)

// PostEmbedding is one fixed-length vector per (post, model) pair, written
// by the embeddings pipeline. The text-similarity feature joins against it;
// a missing row simply contributes no candidates.
type PostEmbedding struct {
	PostID     string    `json:"post_id" db:"post_id"`
	Model      string    `json:"model" db:"model"`
	Embeddings []float64 `json:"embeddings" db:"embeddings"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Digest is an editorial digest period. A digest with a nil EndDate is the
// currently open one; the digest strategy draws its candidates from it.
type Digest struct {
	ID        string     `json:"id" db:"id"`
	Num       int        `json:"num" db:"num"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// DigestPost places a post into a digest.
type DigestPost struct {
	DigestID string `json:"digest_id" db:"digest_id"`
	PostID   string `json:"post_id" db:"post_id"`
}
