package entity

type RetrievalOptions struct {
	MaxResults int     `json:"max_results"`
	Strategy   string  `json:"strategy,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
}

type RetrievalRequest struct {
	Query               string           `json:"query"`
	ConversationContext []string         `json:"conversation_context,omitempty"`
	Options             RetrievalOptions `json:"options"`
}

// RetrievalResult is the retrieval service's answer. A nil Chunks slice means
// the service did not report passages at all; an empty non-nil slice means it
// searched and found nothing. Downstream scoring treats the two differently.
type RetrievalResult struct {
	Chunks          []CandidateChunk `json:"chunks"`
	ConfidenceScore float64          `json:"confidence_score"`
	QueryAnalysis   string           `json:"query_analysis,omitempty"`
}
