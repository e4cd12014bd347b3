package entity

type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceVeryLow ConfidenceLevel = "very_low"
)

// AnswerGrade is the finer six-tier qualitative reading of the same overall
// score, used in audit rows and reports rather than in fallback decisions.
type AnswerGrade string

const (
	GradeExcellent  AnswerGrade = "excellent"
	GradeGood       AnswerGrade = "good"
	GradeAcceptable AnswerGrade = "acceptable"
	GradeUncertain  AnswerGrade = "uncertain"
	GradePoor       AnswerGrade = "poor"
	GradeUnreliable AnswerGrade = "unreliable"
)

// IssueType is the closed set of problems the assessor can raise. The
// fallback dispatcher switches exhaustively over these, so adding a type is a
// compile-time-visible change.
type IssueType string

const (
	IssueLowRetrievalConfidence IssueType = "low_retrieval_confidence"
	IssueNoRelevantSources      IssueType = "no_relevant_sources"
	IssuePoorCitationQuality    IssueType = "poor_citation_quality"
	IssueIncompleteResponse     IssueType = "incomplete_response"
	IssueQueryAmbiguity         IssueType = "query_ambiguity"
	IssueSystemError            IssueType = "system_error"
)

type IssueSeverity string

const (
	SeverityLow    IssueSeverity = "low"
	SeverityMedium IssueSeverity = "medium"
	SeverityHigh   IssueSeverity = "high"
)

// Issue is one detected problem with an answer. Severity drives fallback
// strategy selection; Component and Score explain where it came from.
type Issue struct {
	Type      IssueType     `json:"type"`
	Severity  IssueSeverity `json:"severity"`
	Component string        `json:"component"`
	Score     float64       `json:"score"`
}

// ComponentScore is one weighted component of the overall assessment together
// with its normalized sub-factors and any issues it raised.
type ComponentScore struct {
	Score      float64            `json:"score"`
	Subfactors map[string]float64 `json:"subfactors,omitempty"`
	Issues     []Issue            `json:"issues,omitempty"`
}

type ConfidenceComponents struct {
	Retrieval  ComponentScore `json:"retrieval"`
	Content    ComponentScore `json:"content"`
	Context    ComponentScore `json:"context"`
	Generation ComponentScore `json:"generation"`
}

// ConfidenceAssessment is the reliability estimate for a generated answer,
// computed once after generation and attached to the response unchanged.
type ConfidenceAssessment struct {
	Overall            float64              `json:"overall"`
	Level              ConfidenceLevel      `json:"level"`
	Grade              AnswerGrade          `json:"grade"`
	Components         ConfidenceComponents `json:"components"`
	Issues             []Issue              `json:"issues,omitempty"`
	RecommendedActions []string             `json:"recommended_actions,omitempty"`
}
