package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdesk/answer-backend/internal/entity"
)

var testTopics = []string{"fund pricing", "redemptions", "account setup"}

func newTestDispatcher() *Dispatcher {
	return New(DefaultConfig(testTopics), nil)
}

func issue(t entity.IssueType, severity entity.IssueSeverity) entity.Issue {
	return entity.Issue{Type: t, Severity: severity, Component: "test"}
}

func draftResponse() entity.AnswerResponse {
	return entity.AnswerResponse{
		Message:         "The NAV is calculated daily at market close [1].",
		Confidence:      0.7,
		ConfidenceLevel: entity.ConfidenceMedium,
		Citations:       []entity.Citation{{Index: 1, ChunkID: "c1", SourceID: "s1"}},
		Sources:         []entity.SourceRef{{SourceID: "s1", ChunkID: "c1"}},
	}
}

func TestDispatcher_Strategies(t *testing.T) {
	d := newTestDispatcher()

	t.Run("Should pass the draft through when there are no issues", func(t *testing.T) {
		draft := draftResponse()
		out := d.Dispatch(nil, draft)

		assert.Equal(t, draft, out)
		assert.Empty(t, out.FallbackStrategy)
	})

	t.Run("Should ask for a rephrase on low retrieval confidence", func(t *testing.T) {
		out := d.Dispatch([]entity.Issue{
			issue(entity.IssueLowRetrievalConfidence, entity.SeverityMedium),
		}, draftResponse())

		assert.Equal(t, StrategyRephraseRequest, out.FallbackStrategy)
		assert.Contains(t, out.Message, "rephrase")
		assert.InDelta(t, 0.3, out.Confidence, 1e-9)
		assert.Empty(t, out.Citations)
		assert.Empty(t, out.Sources)
		assert.False(t, out.IsError)
	})

	t.Run("Should suggest topics when no sources were found", func(t *testing.T) {
		out := d.Dispatch([]entity.Issue{
			issue(entity.IssueNoRelevantSources, entity.SeverityHigh),
		}, draftResponse())

		assert.Equal(t, StrategyTopicSuggestions, out.FallbackStrategy)
		assert.Contains(t, out.Message, "could not find any relevant information")
		assert.Equal(t, testTopics, out.Suggestions)
		assert.InDelta(t, 0.2, out.Confidence, 1e-9)
		assert.Equal(t, entity.ConfidenceVeryLow, out.ConfidenceLevel)
	})

	t.Run("Should keep the answer and append a caveat on poor citations", func(t *testing.T) {
		draft := draftResponse()
		out := d.Dispatch([]entity.Issue{
			issue(entity.IssuePoorCitationQuality, entity.SeverityMedium),
		}, draft)

		assert.Equal(t, StrategyAccuracyCaveat, out.FallbackStrategy)
		assert.Contains(t, out.Message, draft.Message)
		assert.Contains(t, out.Message, "double-check")
		assert.InDelta(t, 0.5, out.Confidence, 1e-9)
		assert.NotEmpty(t, out.Citations)
	})

	t.Run("Should offer a continuation on truncated generation", func(t *testing.T) {
		draft := draftResponse()
		out := d.Dispatch([]entity.Issue{
			issue(entity.IssueIncompleteResponse, entity.SeverityLow),
		}, draft)

		assert.Equal(t, StrategyContinuationOffer, out.FallbackStrategy)
		assert.Contains(t, out.Message, draft.Message)
		assert.Contains(t, out.Message, "continue")
		assert.InDelta(t, 0.6, out.Confidence, 1e-9)
	})

	t.Run("Should ask a clarifying question with enumerated options on ambiguity", func(t *testing.T) {
		out := d.Dispatch([]entity.Issue{
			issue(entity.IssueQueryAmbiguity, entity.SeverityMedium),
		}, draftResponse())

		assert.Equal(t, StrategyClarification, out.FallbackStrategy)
		assert.Contains(t, out.Message, "1. fund pricing")
		assert.Contains(t, out.Message, "3. account setup")
		assert.InDelta(t, 0.4, out.Confidence, 1e-9)
		assert.Equal(t, entity.ConfidenceLow, out.ConfidenceLevel)
	})

	t.Run("Should return the generic apology on a system error", func(t *testing.T) {
		out := d.Dispatch([]entity.Issue{
			issue(entity.IssueSystemError, entity.SeverityHigh),
		}, draftResponse())

		assert.Equal(t, StrategyGenericError, out.FallbackStrategy)
		assert.Contains(t, out.Message, "sorry")
		assert.True(t, out.IsError)
		assert.InDelta(t, 0.1, out.Confidence, 1e-9)
	})

	t.Run("Should treat an unknown issue type as the generic error", func(t *testing.T) {
		out := d.Dispatch([]entity.Issue{
			issue(entity.IssueType("something_new"), entity.SeverityHigh),
		}, draftResponse())

		assert.Equal(t, StrategyGenericError, out.FallbackStrategy)
		assert.True(t, out.IsError)
	})
}

func TestDispatcher_SeverityPrecedence(t *testing.T) {
	d := newTestDispatcher()

	// The assessor sorts issues highest severity first; the dispatcher
	// applies exactly the head strategy.
	out := d.Dispatch([]entity.Issue{
		issue(entity.IssueNoRelevantSources, entity.SeverityHigh),
		issue(entity.IssuePoorCitationQuality, entity.SeverityMedium),
		issue(entity.IssueIncompleteResponse, entity.SeverityLow),
	}, draftResponse())

	require.Equal(t, StrategyTopicSuggestions, out.FallbackStrategy)
	assert.NotContains(t, out.Message, "double-check")
	assert.NotContains(t, out.Message, "cut short")
}

func TestDispatcher_Generic(t *testing.T) {
	d := newTestDispatcher()

	out := d.Generic(entity.AnswerResponse{Message: "partial"})

	assert.Equal(t, StrategyGenericError, out.FallbackStrategy)
	assert.True(t, out.IsError)
	assert.InDelta(t, 0.1, out.Confidence, 1e-9)
}

func TestDispatcher_ConfidenceFloor(t *testing.T) {
	d := newTestDispatcher()

	draft := draftResponse()
	draft.Confidence = 0.05
	out := d.Dispatch([]entity.Issue{
		issue(entity.IssuePoorCitationQuality, entity.SeverityMedium),
	}, draft)

	assert.GreaterOrEqual(t, out.Confidence, 0.0)
}

func TestDispatcher_RecoversFromStrategyPanic(t *testing.T) {
	// A level function that panics simulates an internal strategy failure;
	// the dispatcher must degrade to the generic error, not propagate.
	calls := 0
	d := New(DefaultConfig(testTopics), func(score float64) entity.ConfidenceLevel {
		calls++
		if calls == 1 {
			panic("level table broken")
		}
		return entity.ConfidenceVeryLow
	})

	out := d.Dispatch([]entity.Issue{
		issue(entity.IssueQueryAmbiguity, entity.SeverityMedium),
	}, draftResponse())

	assert.Equal(t, StrategyGenericError, out.FallbackStrategy)
	assert.True(t, out.IsError)
}
