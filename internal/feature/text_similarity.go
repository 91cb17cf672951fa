package feature

// TextSimilarityFeature scores by embedding similarity for a given model.
// embedding_distance returns the negative inner product, so negating it
// keeps "higher is better" consistent with the other features.
//
// Both joins are inner joins: if the seed post has no embedding row for the
// model, the feature contributes no candidates at all. That is the accepted
// soft-failure mode for missing embeddings.
type TextSimilarityFeature struct{}

func (f *TextSimilarityFeature) Name() string { return "textSimilarity" }

func (f *TextSimilarityFeature) Join(_ Params) string {
	return `
JOIN post_embeddings seed_embedding ON
  seed_embedding.post_id = @seedPostId AND
  seed_embedding.model = @embeddingModel
JOIN post_embeddings candidate_embedding ON
  candidate_embedding.post_id = p.id AND
  candidate_embedding.model = @embeddingModel`
}

func (f *TextSimilarityFeature) Filter(_ Params) string { return "" }

func (f *TextSimilarityFeature) Score(_ Params) string {
	return "-embedding_distance(seed_embedding.embeddings, candidate_embedding.embeddings)"
}

func (f *TextSimilarityFeature) Args(p Params) map[string]any {
	return map[string]any{
		"seedPostId":     p.SeedPostID,
		"embeddingModel": p.EmbeddingModel,
	}
}
