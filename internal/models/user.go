package models

import (
	"time"
)

// User is the minimal identity shape the engine needs. Anonymous requests
// are represented by a nil *User throughout.
type User struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Deleted     bool      `json:"deleted" db:"deleted"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Subscription states and types consumed by the subscribed-author and
// subscribed-tag features. Subscriptions are written by the notification
// subsystem; the engine only reads them.
const (
	SubscriptionStateActive     = "subscribed"
	SubscriptionTypeNewPosts    = "newPosts"
	SubscriptionTypeNewTagPosts = "newTagPosts"
)

// Subscription relates a user to a document (an author or a tag) they follow.
type Subscription struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	DocumentID     string    `json:"document_id" db:"document_id"`
	CollectionName string    `json:"collection_name" db:"collection_name"`
	Type           string    `json:"type" db:"type"`
	State          string    `json:"state" db:"state"`
	Deleted        bool      `json:"deleted" db:"deleted"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
