package feature

import (
	"github.com/post-recommendations-api/internal/models"
)

// CollabFilterFeature scores candidates by the Jaccard similarity between
// the voter set of the seed post and the voter set of the candidate,
// computed over hashed user ids represented as integer sets (intarray).
//
// The join is an inner join on voter-set overlap, so candidates with no
// shared voter are excluded by construction rather than filtered.
type CollabFilterFeature struct{}

func (f *CollabFilterFeature) Name() string { return "collabFilter" }

func (f *CollabFilterFeature) Join(_ Params) string {
	return `
CROSS JOIN (
  SELECT ARRAY_AGG(DISTINCT HASHTEXT(sv.user_id)) AS voters
  FROM votes sv
  WHERE sv.post_id = @seedPostId
    AND sv.collection_name = @voteCollection
    AND sv.cancelled IS NOT TRUE
) seed_voters
JOIN LATERAL (
  SELECT ARRAY_AGG(DISTINCT HASHTEXT(cv.user_id)) AS voters
  FROM votes cv
  WHERE cv.post_id = p.id
    AND cv.collection_name = @voteCollection
    AND cv.cancelled IS NOT TRUE
) candidate_voters ON candidate_voters.voters && seed_voters.voters`
}

func (f *CollabFilterFeature) Filter(_ Params) string { return "" }

func (f *CollabFilterFeature) Score(_ Params) string {
	return `COALESCE(
  ICOUNT(candidate_voters.voters & seed_voters.voters)::FLOAT /
    NULLIF(ICOUNT(candidate_voters.voters | seed_voters.voters), 0)::FLOAT,
  0
)`
}

func (f *CollabFilterFeature) Args(p Params) map[string]any {
	return map[string]any{
		"seedPostId":     p.SeedPostID,
		"voteCollection": models.VoteCollectionPosts,
	}
}
