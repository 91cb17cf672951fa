package models

import (
	"time"
)

// PostStatusApproved is the only publication status eligible for
// recommendation. Other statuses (pending review, rejected, spam) are
// managed by the moderation pipeline.
const PostStatusApproved = 2

// CoauthorStatus records a co-author attached to a post along with whether
// the co-authorship has been confirmed by that user.
type CoauthorStatus struct {
	UserID    string `json:"userId"`
	Confirmed bool   `json:"confirmed"`
	Requested bool   `json:"requested"`
}

// Post is a candidate content item. It is owned by the content-authoring
// subsystem; the recommendation engine only reads it.
type Post struct {
	ID                     string           `json:"id" db:"id"`
	UserID                 string           `json:"user_id" db:"user_id"`
	CoauthorStatuses       []CoauthorStatus `json:"coauthor_statuses,omitempty" db:"-"`
	HasCoauthorPermission  bool             `json:"has_coauthor_permission" db:"has_coauthor_permission"`
	Title                  string           `json:"title" db:"title"`
	Slug                   string           `json:"slug" db:"slug"`
	Status                 int              `json:"status" db:"status"`
	Draft                  bool             `json:"draft" db:"draft"`
	DeletedDraft           bool             `json:"deleted_draft" db:"deleted_draft"`
	IsFuture               bool             `json:"is_future" db:"is_future"`
	Shortform              bool             `json:"shortform" db:"shortform"`
	IsEvent                bool             `json:"is_event" db:"is_event"`
	HiddenRelatedQuestion  bool             `json:"hidden_related_question" db:"hidden_related_question"`
	GroupID                *string          `json:"group_id,omitempty" db:"group_id"`
	BaseScore              float64          `json:"base_score" db:"base_score"`
	Score                  float64          `json:"score" db:"score"`
	TagRelevance           map[string]int   `json:"tag_relevance,omitempty" db:"-"`
	CuratedDate            *time.Time       `json:"curated_date,omitempty" db:"curated_date"`
	PostedAt               time.Time        `json:"posted_at" db:"posted_at"`
	CreatedAt              time.Time        `json:"created_at" db:"created_at"`
}

// AuthorIDs returns the post's primary author plus every co-author that is
// either confirmed or covered by a standing co-author permission grant.
func (p *Post) AuthorIDs() []string {
	ids := []string{p.UserID}
	for _, ca := range p.CoauthorStatuses {
		if ca.Confirmed || p.HasCoauthorPermission {
			ids = append(ids, ca.UserID)
		}
	}
	return ids
}

// Tag is the denormalized tag record the engine reads for tag pivoting.
// post_count is maintained by an external denormalization process.
type Tag struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Slug      string `json:"slug" db:"slug"`
	PostCount int    `json:"post_count" db:"post_count"`
	Deleted   bool   `json:"deleted" db:"deleted"`
}
