package entity

// CandidateChunk is a retrieved passage competing for a place in the token
// budget. Supplied by the retrieval service; selection only filters, reorders
// and counts it, never rewrites it.
type CandidateChunk struct {
	ID              string  `json:"id"`
	Content         string  `json:"content"`
	SimilarityScore float64 `json:"similarity_score"`
	QualityScore    float64 `json:"quality_score"`
	SourceID        string  `json:"source_id"`
	EstimatedTokens int     `json:"estimated_tokens,omitempty"`
}

// SelectionResult reports which candidates made it under the chunk budget.
// Invariant: EstimatedTokens never exceeds the budget it was selected under.
type SelectionResult struct {
	SelectedChunks  []CandidateChunk `json:"selected_chunks"`
	EstimatedTokens int              `json:"estimated_tokens"`
	EvaluatedCount  int              `json:"evaluated_count"`
	DroppedCount    int              `json:"dropped_count"`
	PerSourceCounts map[string]int   `json:"per_source_counts,omitempty"`
}
