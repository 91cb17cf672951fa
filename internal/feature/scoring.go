package feature

// DefaultKarmaPivot is the base score at which the karma feature reaches
// half of its maximum contribution.
const DefaultKarmaPivot = 100.0

// KarmaFeature scores by base score with diminishing returns:
// base_score / (pivot + base_score) saturates towards 1, so high-karma
// posts cannot dominate purely by vote count.
type KarmaFeature struct {
	Pivot float64
}

func (f *KarmaFeature) Name() string          { return "karma" }
func (f *KarmaFeature) Join(_ Params) string  { return "" }
func (f *KarmaFeature) Filter(_ Params) string { return "" }

func (f *KarmaFeature) Score(_ Params) string {
	return "GREATEST(p.base_score, 0) / (@karmaPivot + GREATEST(p.base_score, 0))"
}

func (f *KarmaFeature) Args(_ Params) map[string]any {
	return map[string]any{"karmaPivot": f.Pivot}
}

// CuratedFeature is a binary bonus for editorially curated posts.
type CuratedFeature struct{}

func (f *CuratedFeature) Name() string           { return "curated" }
func (f *CuratedFeature) Join(_ Params) string   { return "" }
func (f *CuratedFeature) Filter(_ Params) string { return "" }

func (f *CuratedFeature) Score(_ Params) string {
	return "CASE WHEN p.curated_date IS NOT NULL THEN 1 ELSE 0 END"
}

func (f *CuratedFeature) Args(_ Params) map[string]any { return nil }

// TagSimilarityFeature delegates to the precomputed post-to-post tag
// overlap function, parameterized by the seed post.
type TagSimilarityFeature struct{}

func (f *TagSimilarityFeature) Name() string           { return "tagSimilarity" }
func (f *TagSimilarityFeature) Join(_ Params) string   { return "" }
func (f *TagSimilarityFeature) Filter(_ Params) string { return "" }

func (f *TagSimilarityFeature) Score(_ Params) string {
	return "post_tag_similarity(@seedPostId, p.id)"
}

func (f *TagSimilarityFeature) Args(p Params) map[string]any {
	return map[string]any{"seedPostId": p.SeedPostID}
}
