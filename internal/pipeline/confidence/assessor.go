// Package confidence computes the reliability estimate for a generated
// answer from four weighted components: retrieval support, answer content,
// query context and generation metadata. The assessor never fails: missing
// or malformed inputs score as documented on the input types, and any
// internal error degrades to a floor assessment instead of propagating.
package confidence

import (
	"sort"

	"github.com/ragdesk/answer-backend/internal/entity"
)

type Assessor struct {
	cfg Config
}

func New(cfg Config) *Assessor {
	return &Assessor{cfg: cfg}
}

// Assess combines the four component scores into one overall confidence,
// derives the discrete level and grade, and collects every issue the
// components raised plus the recommended follow-up actions.
func (a *Assessor) Assess(retrieval RetrievalInput, content ContentInput, qctx ContextInput, gen GenerationInput) (out entity.ConfidenceAssessment) {
	defer func() {
		if r := recover(); r != nil {
			out = a.floorAssessment()
		}
	}()

	components := entity.ConfidenceComponents{
		Retrieval:  a.scoreRetrieval(retrieval),
		Content:    a.scoreContent(content),
		Context:    a.scoreContext(qctx),
		Generation: a.scoreGeneration(gen),
	}

	overall := clamp01(a.cfg.RetrievalWeight*components.Retrieval.Score +
		a.cfg.ContentWeight*components.Content.Score +
		a.cfg.ContextWeight*components.Context.Score +
		a.cfg.GenerationWeight*components.Generation.Score)

	issues := collectIssues(components)
	if overall < a.cfg.MinOverall {
		issues = append(issues, entity.Issue{
			Type:      entity.IssueSystemError,
			Severity:  entity.SeverityHigh,
			Component: "overall",
			Score:     overall,
		})
	}
	sortIssues(issues)

	return entity.ConfidenceAssessment{
		Overall:            overall,
		Level:              a.LevelFor(overall),
		Grade:              a.GradeFor(overall),
		Components:         components,
		Issues:             issues,
		RecommendedActions: recommendedActions(issues),
	}
}

// LevelFor maps a score onto the four-tier level used for fallback
// decisions.
func (a *Assessor) LevelFor(score float64) entity.ConfidenceLevel {
	switch {
	case score >= a.cfg.HighThreshold:
		return entity.ConfidenceHigh
	case score >= a.cfg.MediumThreshold:
		return entity.ConfidenceMedium
	case score >= a.cfg.LowThreshold:
		return entity.ConfidenceLow
	default:
		return entity.ConfidenceVeryLow
	}
}

// GradeFor maps a score onto the finer six-tier reading used in audit rows
// and reports.
func (a *Assessor) GradeFor(score float64) entity.AnswerGrade {
	switch {
	case score >= a.cfg.ExcellentGrade:
		return entity.GradeExcellent
	case score >= a.cfg.GoodGrade:
		return entity.GradeGood
	case score >= a.cfg.AcceptableGrade:
		return entity.GradeAcceptable
	case score >= a.cfg.UncertainGrade:
		return entity.GradeUncertain
	case score >= a.cfg.PoorGrade:
		return entity.GradePoor
	default:
		return entity.GradeUnreliable
	}
}

func collectIssues(c entity.ConfidenceComponents) []entity.Issue {
	var issues []entity.Issue
	issues = append(issues, c.Retrieval.Issues...)
	issues = append(issues, c.Content.Issues...)
	issues = append(issues, c.Context.Issues...)
	issues = append(issues, c.Generation.Issues...)
	return issues
}

// severityRank orders severities for sorting, highest first.
func severityRank(s entity.IssueSeverity) int {
	switch s {
	case entity.SeverityHigh:
		return 0
	case entity.SeverityMedium:
		return 1
	default:
		return 2
	}
}

// issuePrecedence breaks severity ties deterministically. Specific,
// actionable problems outrank the generic low-overall signal: an empty
// retrieval should lead to topic suggestions, not a blanket apology.
var issuePrecedence = map[entity.IssueType]int{
	entity.IssueNoRelevantSources:      0,
	entity.IssueLowRetrievalConfidence: 1,
	entity.IssueQueryAmbiguity:         2,
	entity.IssueSystemError:            3,
	entity.IssuePoorCitationQuality:    4,
	entity.IssueIncompleteResponse:     5,
}

func sortIssues(issues []entity.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		ri, rj := severityRank(issues[i].Severity), severityRank(issues[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return issuePrecedence[issues[i].Type] < issuePrecedence[issues[j].Type]
	})
}

func recommendedActions(issues []entity.Issue) []string {
	var actions []string
	seen := make(map[entity.IssueType]struct{}, len(issues))
	for _, issue := range issues {
		if _, ok := seen[issue.Type]; ok {
			continue
		}
		seen[issue.Type] = struct{}{}

		switch issue.Type {
		case entity.IssueLowRetrievalConfidence:
			actions = append(actions, "ask the user to rephrase with more specific terminology")
		case entity.IssueNoRelevantSources:
			actions = append(actions, "explain that no sources were found and suggest known topics")
		case entity.IssuePoorCitationQuality:
			actions = append(actions, "append an accuracy caveat to the answer")
		case entity.IssueIncompleteResponse:
			actions = append(actions, "offer to continue the truncated answer")
		case entity.IssueQueryAmbiguity:
			actions = append(actions, "ask a clarifying question with topic options")
		case entity.IssueSystemError:
			actions = append(actions, "return the generic apology and invite a retry")
		}
	}
	return actions
}

// floorAssessment is the recovery result when scoring itself failed:
// minimal trust, flagged as a system problem.
func (a *Assessor) floorAssessment() entity.ConfidenceAssessment {
	issue := entity.Issue{
		Type:      entity.IssueSystemError,
		Severity:  entity.SeverityHigh,
		Component: "overall",
		Score:     0,
	}
	return entity.ConfidenceAssessment{
		Overall:            0,
		Level:              entity.ConfidenceVeryLow,
		Grade:              entity.GradeUnreliable,
		Issues:             []entity.Issue{issue},
		RecommendedActions: recommendedActions([]entity.Issue{issue}),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// ratio normalizes a count against a target, capped at 1. A non-positive
// target disables the sub-factor.
func ratio(count, target int) float64 {
	if target <= 0 || count <= 0 {
		return 0
	}
	return clamp01(float64(count) / float64(target))
}
