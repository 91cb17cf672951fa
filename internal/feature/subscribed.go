package feature

import (
	"github.com/post-recommendations-api/internal/models"
)

// SubscribedAuthorFeature is a binary bonus for posts whose author the
// requesting user actively subscribes to. Anonymous requests score 0.
type SubscribedAuthorFeature struct{}

func (f *SubscribedAuthorFeature) Name() string           { return "subscribedAuthor" }
func (f *SubscribedAuthorFeature) Join(_ Params) string   { return "" }
func (f *SubscribedAuthorFeature) Filter(_ Params) string { return "" }

func (f *SubscribedAuthorFeature) Score(p Params) string {
	if p.UserID == "" {
		return "0"
	}
	return `CASE WHEN EXISTS (
  SELECT 1 FROM subscriptions s
  WHERE s.user_id = @subscriberId
    AND s.document_id = p.user_id
    AND s.type = @newPostsType
    AND s.state = @activeSubscription
    AND s.deleted IS NOT TRUE
) THEN 1 ELSE 0 END`
}

func (f *SubscribedAuthorFeature) Args(p Params) map[string]any {
	if p.UserID == "" {
		return nil
	}
	return map[string]any{
		"subscriberId":       p.UserID,
		"newPostsType":       models.SubscriptionTypeNewPosts,
		"activeSubscription": models.SubscriptionStateActive,
	}
}

// SubscribedTagFeature is a binary bonus for posts relevant to a tag the
// requesting user actively subscribes to. Anonymous requests score 0.
type SubscribedTagFeature struct{}

func (f *SubscribedTagFeature) Name() string           { return "subscribedTag" }
func (f *SubscribedTagFeature) Join(_ Params) string   { return "" }
func (f *SubscribedTagFeature) Filter(_ Params) string { return "" }

func (f *SubscribedTagFeature) Score(p Params) string {
	if p.UserID == "" {
		return "0"
	}
	return `CASE WHEN EXISTS (
  SELECT 1 FROM subscriptions s
  WHERE s.user_id = @subscriberId
    AND s.type = @newTagPostsType
    AND s.state = @activeSubscription
    AND s.deleted IS NOT TRUE
    AND COALESCE((p.tag_relevance ->> s.document_id)::INTEGER, 0) >= 1
) THEN 1 ELSE 0 END`
}

func (f *SubscribedTagFeature) Args(p Params) map[string]any {
	if p.UserID == "" {
		return nil
	}
	return map[string]any{
		"subscriberId":       p.UserID,
		"newTagPostsType":    models.SubscriptionTypeNewTagPosts,
		"activeSubscription": models.SubscriptionStateActive,
	}
}
