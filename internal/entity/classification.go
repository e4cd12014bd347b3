package entity

type QueryKind string

const (
	// QueryKindSystem marks operational/health-check traffic that must bypass
	// retrieval and generation entirely.
	QueryKindSystem QueryKind = "SYSTEM"
	// QueryKindFAQ marks short common questions answerable with minimal context.
	QueryKindFAQ QueryKind = "FAQ"
	// QueryKindUser marks regular user questions that run the full pipeline.
	QueryKindUser QueryKind = "USER"
)

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityStandard Complexity = "standard"
	ComplexityComplex  Complexity = "complex"
)

// Classification is the classifier's verdict for a single query. It is
// produced once per request and never mutated afterwards.
type Classification struct {
	Kind            QueryKind  `json:"kind"`
	Complexity      Complexity `json:"complexity,omitempty"`
	Confidence      float64    `json:"confidence"`
	Reasoning       string     `json:"reasoning"`
	TokenBudgetHint int        `json:"token_budget_hint"`
	MaxChunks       int        `json:"max_chunks"`
	SkipRAG         bool       `json:"skip_rag"`
	Cacheable       bool       `json:"cacheable"`
	CacheKey        string     `json:"cache_key,omitempty"`
	// Err carries the internal error message when classification fell back to
	// the safe default. Informational only; the default is always usable.
	Err string `json:"error,omitempty"`
}
