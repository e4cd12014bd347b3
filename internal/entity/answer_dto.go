package entity

import "time"

// AnswerOptions are the caller-supplied knobs of a single answer request.
// All fields are optional; pointer fields distinguish "absent" from zero.
type AnswerOptions struct {
	Domain             string   `json:"domain,omitempty"`
	UserTier           string   `json:"user_tier,omitempty"`
	Model              string   `json:"model,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
	ExpectedConfidence *float64 `json:"expected_confidence,omitempty"`
	MaxResults         int      `json:"max_results,omitempty"`
}

type AnswerRequest struct {
	Query     string        `json:"query"`
	SessionID string        `json:"session_id,omitempty"`
	Options   AnswerOptions `json:"options"`
}

// RequestMeta carries ambient request fields taken from the transport, not
// the body: the caller's user agent feeds system-query detection, the
// receive time feeds the temporal budget adjustment.
type RequestMeta struct {
	UserAgent string
	Timestamp time.Time
}

// SourceRef is the per-source view of the passages behind an answer.
type SourceRef struct {
	SourceID   string  `json:"source_id"`
	ChunkID    string  `json:"chunk_id"`
	Similarity float64 `json:"similarity"`
}

// TokenOptimization summarizes how the token budget was spent.
type TokenOptimization struct {
	Allocated      int     `json:"allocated"`
	Used           int     `json:"used"`
	UtilizationPct float64 `json:"utilization_pct"`
	ChunksSelected int     `json:"chunks_selected"`
	ChunksDropped  int     `json:"chunks_dropped"`
}

// AnswerResponse is the terminal response shape for one query, whether the
// answer came from generation, a fallback strategy, or the system-query
// short circuit.
type AnswerResponse struct {
	Message             string            `json:"message"`
	Confidence          float64           `json:"confidence"`
	ConfidenceLevel     ConfidenceLevel   `json:"confidence_level"`
	Grade               AnswerGrade       `json:"grade,omitempty"`
	Citations           []Citation        `json:"citations,omitempty"`
	Sources             []SourceRef       `json:"sources,omitempty"`
	Suggestions         []string          `json:"suggestions,omitempty"`
	TokenOptimization   TokenOptimization `json:"token_optimization"`
	QueryClassification Classification    `json:"query_classification"`
	BudgetAllocation    BudgetAllocation  `json:"budget_allocation"`
	FallbackStrategy    string            `json:"fallback_strategy,omitempty"`
	IsError             bool              `json:"is_error,omitempty"`
	Warnings            []string          `json:"warnings,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
