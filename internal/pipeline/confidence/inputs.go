package confidence

import "github.com/ragdesk/answer-backend/internal/entity"

// The input types below make every field's fallback behavior explicit: each
// documents what its zero value means to the scorer, so a caller that only
// ran part of the pipeline passes zero values and still gets a usable, never
// panicking assessment.

// RetrievalInput is what the retrieval stage produced. A nil Chunks slice
// means retrieval did not report passages at all (source quality scores a
// neutral 0.5); an empty non-nil slice means it searched and found nothing
// (source quality scores 0 and the no-relevant-sources issue fires).
type RetrievalInput struct {
	Chunks []entity.CandidateChunk
	// ReportedConfidence is the retrieval service's own estimate. Unused in
	// scoring, kept for the assessment trace.
	ReportedConfidence float64
}

func (in RetrievalInput) absent() bool { return in.Chunks == nil }
func (in RetrievalInput) empty() bool  { return in.Chunks != nil && len(in.Chunks) == 0 }

// ContentInput is the generated answer text with its citation trail.
// Citations are validated against Chunks, which should be the chunks the
// prompt was assembled from. An empty Response scores zero length and
// coherence; it never errors.
type ContentInput struct {
	Response  string
	Citations []entity.Citation
	Chunks    []entity.CandidateChunk
}

// ContextInput describes the query and its conversational setting.
// An empty Complexity is scored at the neutral standard tier. Zero
// HistoryTurns means a fresh conversation, not missing data.
type ContextInput struct {
	Query        string
	Complexity   entity.Complexity
	HistoryTurns int
	// DomainTerms is the deployment's domain vocabulary used for the
	// overlap sub-factor. Nil disables the overlap signal (scores 0).
	DomainTerms []string
}

// GenerationInput is the generation call's metadata. The zero value means
// generation never ran: every sub-factor scores a neutral 0.5 and the
// incomplete-response issue is suppressed (there was no response to be
// incomplete).
type GenerationInput struct {
	Model        string
	Temperature  *float64
	Content      string
	FinishReason string
	Usage        entity.TokenUsage
}

func (in GenerationInput) absent() bool {
	return in.FinishReason == "" && in.Content == "" && in.Usage.Total() == 0
}
