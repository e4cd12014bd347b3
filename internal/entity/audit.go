package entity

import "time"

// AuditRecord is the persisted trace of one answered query. The query text
// is stored after PII redaction; raw queries never reach the database.
type AuditRecord struct {
	ID               string          `json:"id"`
	SessionID        string          `json:"session_id,omitempty"`
	Query            string          `json:"query"`
	Kind             QueryKind       `json:"kind"`
	Complexity       Complexity      `json:"complexity"`
	BudgetTotal      int             `json:"budget_total"`
	ChunksSelected   int             `json:"chunks_selected"`
	ChunksDropped    int             `json:"chunks_dropped"`
	TokensUsed       int             `json:"tokens_used"`
	Confidence       float64         `json:"confidence"`
	ConfidenceLevel  ConfidenceLevel `json:"confidence_level"`
	IssueTypes       []string        `json:"issue_types,omitempty"`
	FallbackStrategy string          `json:"fallback_strategy,omitempty"`
	IsError          bool            `json:"is_error"`
	LatencyMs        int64           `json:"latency_ms"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AuditFilter narrows audit listings. Zero values mean "no constraint".
type AuditFilter struct {
	SessionID  string
	Kind       QueryKind
	Complexity Complexity
	OnlyErrors bool
	Since      time.Time
	Until      time.Time
	Limit      int
	Offset     int
}

// AuditSummary aggregates a window of audit records for reporting.
type AuditSummary struct {
	TotalQueries    int              `json:"total_queries"`
	ErrorCount      int              `json:"error_count"`
	FallbackCount   int              `json:"fallback_count"`
	MeanConfidence  float64          `json:"mean_confidence"`
	MeanLatencyMs   float64          `json:"mean_latency_ms"`
	TokensUsedTotal int64            `json:"tokens_used_total"`
	ByKind          map[string]int   `json:"by_kind"`
	ByComplexity    map[string]int   `json:"by_complexity"`
	ByLevel         map[string]int   `json:"by_level"`
	TopIssues       map[string]int   `json:"top_issues"`
	Window          AuditReportRange `json:"window"`
}

type AuditReportRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// AuditReport bundles the summary with the records it was computed from.
type AuditReport struct {
	Summary AuditSummary  `json:"summary"`
	Records []AuditRecord `json:"records"`
}

type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown"
	FormatPDF      ReportFormat = "pdf"
	FormatXLSX     ReportFormat = "xlsx"
)

func (f ReportFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatPDF, FormatXLSX:
		return true
	default:
		return false
	}
}
