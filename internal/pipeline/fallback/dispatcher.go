// Package fallback maps confidence issues to recovery strategies. Dispatch
// is a stateless lookup: the highest-severity issue selects exactly one
// strategy, the strategy rewrites or annotates the draft response, and no
// state survives between invocations.
package fallback

import (
	"fmt"
	"strings"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// Strategy names recorded on responses and audit rows.
const (
	StrategyRephraseRequest   = "rephrase_request"
	StrategyTopicSuggestions  = "topic_suggestions"
	StrategyAccuracyCaveat    = "accuracy_caveat"
	StrategyContinuationOffer = "continuation_offer"
	StrategyClarification     = "clarification_request"
	StrategyGenericError      = "generic_error"
)

// Config carries the fallback texts and confidence constants.
type Config struct {
	// TopicSuggestions are offered when retrieval found nothing and as
	// the enumerated options of a clarifying question.
	TopicSuggestions []string

	// Forced confidences for replacement strategies.
	RephraseConfidence  float64
	NoSourcesConfidence float64
	ClarifyConfidence   float64
	ErrorConfidence     float64

	// Penalties for annotating strategies, subtracted from the draft
	// confidence.
	CaveatPenalty       float64
	ContinuationPenalty float64
}

func DefaultConfig(topics []string) Config {
	return Config{
		TopicSuggestions:    topics,
		RephraseConfidence:  0.3,
		NoSourcesConfidence: 0.2,
		ClarifyConfidence:   0.4,
		ErrorConfidence:     0.1,
		CaveatPenalty:       0.2,
		ContinuationPenalty: 0.1,
	}
}

// LevelFunc recomputes the discrete confidence level after a strategy
// changed the score. Injected from the assessor so both use one table.
type LevelFunc func(score float64) entity.ConfidenceLevel

type Dispatcher struct {
	cfg      Config
	levelFor LevelFunc
}

func New(cfg Config, levelFor LevelFunc) *Dispatcher {
	if levelFor == nil {
		levelFor = defaultLevel
	}
	return &Dispatcher{cfg: cfg, levelFor: levelFor}
}

// Dispatch applies the strategy for the most severe issue to the draft
// response and returns the result. With no issues the draft passes through
// untouched. Strategies never fail: any panic inside one degrades to the
// generic error strategy.
func (d *Dispatcher) Dispatch(issues []entity.Issue, draft entity.AnswerResponse) (out entity.AnswerResponse) {
	defer func() {
		if r := recover(); r != nil {
			out = d.genericError(draft)
		}
	}()

	if len(issues) == 0 {
		return draft
	}

	// Issues arrive sorted by the assessor, highest severity first.
	switch issues[0].Type {
	case entity.IssueLowRetrievalConfidence:
		return d.rephraseRequest(draft)
	case entity.IssueNoRelevantSources:
		return d.topicSuggestions(draft)
	case entity.IssuePoorCitationQuality:
		return d.accuracyCaveat(draft)
	case entity.IssueIncompleteResponse:
		return d.continuationOffer(draft)
	case entity.IssueQueryAmbiguity:
		return d.clarification(draft)
	case entity.IssueSystemError:
		return d.genericError(draft)
	default:
		return d.genericError(draft)
	}
}

// Generic returns the generic error response directly, for pipeline
// failures that never produced an assessment.
func (d *Dispatcher) Generic(draft entity.AnswerResponse) entity.AnswerResponse {
	return d.genericError(draft)
}

func (d *Dispatcher) rephraseRequest(draft entity.AnswerResponse) entity.AnswerResponse {
	draft.Message = "I could not find passages that match your question closely enough " +
		"to answer it reliably. Could you rephrase it with more specific terms, " +
		"for example the exact name of the product, document or metric you mean?"
	draft.Citations = nil
	draft.Sources = nil
	return d.replace(draft, StrategyRephraseRequest, d.cfg.RephraseConfidence)
}

func (d *Dispatcher) topicSuggestions(draft entity.AnswerResponse) entity.AnswerResponse {
	draft.Message = "I could not find any relevant information for your question in the " +
		"knowledge base. It may be outside the topics I cover. Here are some areas " +
		"I can help with:"
	draft.Citations = nil
	draft.Sources = nil
	draft.Suggestions = append([]string(nil), d.cfg.TopicSuggestions...)
	return d.replace(draft, StrategyTopicSuggestions, d.cfg.NoSourcesConfidence)
}

func (d *Dispatcher) accuracyCaveat(draft entity.AnswerResponse) entity.AnswerResponse {
	draft.Message = strings.TrimRight(draft.Message, " \n") +
		"\n\nPlease note: I could not fully verify the citations in this answer " +
		"against the source documents, so double-check the details before relying on them."
	return d.annotate(draft, StrategyAccuracyCaveat, d.cfg.CaveatPenalty)
}

func (d *Dispatcher) continuationOffer(draft entity.AnswerResponse) entity.AnswerResponse {
	draft.Message = strings.TrimRight(draft.Message, " \n") +
		"\n\nThis answer was cut short. Say \"continue\" and I will pick up where it stopped."
	return d.annotate(draft, StrategyContinuationOffer, d.cfg.ContinuationPenalty)
}

func (d *Dispatcher) clarification(draft entity.AnswerResponse) entity.AnswerResponse {
	var b strings.Builder
	b.WriteString("Your question could be read a few different ways. Which of these is closest to what you mean?")
	for i, topic := range d.cfg.TopicSuggestions {
		fmt.Fprintf(&b, "\n%d. %s", i+1, topic)
	}
	draft.Message = b.String()
	draft.Citations = nil
	draft.Sources = nil
	draft.Suggestions = append([]string(nil), d.cfg.TopicSuggestions...)
	return d.replace(draft, StrategyClarification, d.cfg.ClarifyConfidence)
}

func (d *Dispatcher) genericError(draft entity.AnswerResponse) entity.AnswerResponse {
	draft.Message = "I am sorry, something went wrong while answering your question. " +
		"Please try again in a moment."
	draft.Citations = nil
	draft.Sources = nil
	draft.Suggestions = nil
	draft.IsError = true
	return d.replace(draft, StrategyGenericError, d.cfg.ErrorConfidence)
}

// replace swaps the answer for the strategy's own message and forces the
// confidence to the strategy's constant.
func (d *Dispatcher) replace(draft entity.AnswerResponse, strategy string, confidence float64) entity.AnswerResponse {
	draft.FallbackStrategy = strategy
	draft.Confidence = confidence
	draft.ConfidenceLevel = d.levelFor(confidence)
	return draft
}

// annotate keeps the generated answer and lowers the confidence by the
// strategy's penalty, flooring at zero.
func (d *Dispatcher) annotate(draft entity.AnswerResponse, strategy string, penalty float64) entity.AnswerResponse {
	draft.FallbackStrategy = strategy
	draft.Confidence -= penalty
	if draft.Confidence < 0 {
		draft.Confidence = 0
	}
	draft.ConfidenceLevel = d.levelFor(draft.Confidence)
	return draft
}

func defaultLevel(score float64) entity.ConfidenceLevel {
	switch {
	case score >= 0.8:
		return entity.ConfidenceHigh
	case score >= 0.6:
		return entity.ConfidenceMedium
	case score >= 0.4:
		return entity.ConfidenceLow
	default:
		return entity.ConfidenceVeryLow
	}
}
