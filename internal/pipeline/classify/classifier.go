// Package classify categorizes incoming queries into SYSTEM, FAQ, or USER
// traffic before any token is spent on them. Classification is deterministic:
// identical inputs always produce identical results, which makes the verdicts
// safe to cache.
package classify

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// RequestContext carries the ambient request fields the classifier may
// consult. Timestamp is accepted for interface symmetry with the budget
// manager but never influences the verdict.
type RequestContext struct {
	UserAgent string
	Timestamp time.Time
}

type Classifier struct {
	cfg Config
}

func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify never fails: any internal error degrades to a standard USER
// classification carrying the error text.
func (c *Classifier) Classify(query, sessionHint string, reqCtx RequestContext) (out entity.Classification) {
	defer func() {
		if r := recover(); r != nil {
			out = c.defaultClassification(fmt.Sprintf("classification recovered: %v", r))
		}
	}()

	lower := strings.ToLower(strings.TrimSpace(query))
	hint := strings.ToLower(sessionHint)
	agent := strings.ToLower(reqCtx.UserAgent)
	words := strings.Fields(lower)

	key := c.cacheKey(lower, hint, agent)

	if reason, ok := c.detectSystem(lower, hint, agent, words); ok {
		return entity.Classification{
			Kind:            entity.QueryKindSystem,
			Confidence:      1.0,
			Reasoning:       reason,
			TokenBudgetHint: 0,
			MaxChunks:       0,
			SkipRAG:         true,
			Cacheable:       true,
			CacheKey:        key,
		}
	}

	if reason, confidence, ok := c.detectFAQ(lower, words); ok {
		return entity.Classification{
			Kind:            entity.QueryKindFAQ,
			Confidence:      confidence,
			Reasoning:       reason,
			TokenBudgetHint: c.cfg.FAQBudgetHint,
			MaxChunks:       c.cfg.FAQMaxChunks,
			Cacheable:       true,
			CacheKey:        key,
		}
	}

	cls := c.classifyComplexity(lower, words)
	cls.CacheKey = key
	return cls
}

func (c *Classifier) detectSystem(lower, hint, agent string, words []string) (string, bool) {
	for _, exact := range c.cfg.SystemExact {
		if lower == exact {
			return fmt.Sprintf("exact system vocabulary match %q", exact), true
		}
	}

	for _, kw := range c.cfg.HealthKeywords {
		if strings.Contains(lower, kw) {
			return fmt.Sprintf("health keyword %q in query", kw), true
		}
	}

	if hint != "" {
		for _, fragment := range c.cfg.SessionFragments {
			if strings.Contains(hint, fragment) {
				return fmt.Sprintf("monitoring fragment %q in session hint", fragment), true
			}
		}
	}

	if agent != "" {
		for _, fragment := range c.cfg.MonitoringAgents {
			if strings.Contains(agent, fragment) {
				return fmt.Sprintf("monitoring user agent %q", fragment), true
			}
		}
	}

	// Single short lowercase token from the system-word set.
	if len(words) == 1 && len(words[0]) <= c.cfg.SystemWordMaxLen && isAlpha(words[0]) {
		for _, w := range c.cfg.SystemWords {
			if words[0] == w {
				return fmt.Sprintf("single system word token %q", w), true
			}
		}
	}

	return "", false
}

func (c *Classifier) detectFAQ(lower string, words []string) (string, float64, bool) {
	trimmed := strings.TrimRight(lower, "!?. ")
	for _, greeting := range c.cfg.Greetings {
		if trimmed == greeting || (strings.HasPrefix(trimmed, greeting+" ") && len(words) <= 4) {
			return fmt.Sprintf("greeting %q", greeting), 0.9, true
		}
	}

	// Starter phrases only mark generic short questions as FAQ. A query
	// mentioning a domain term needs retrieval even when it starts like one.
	if len(words) <= c.cfg.FAQMaxWords && !c.mentionsDomainTerm(lower, words) {
		for _, starter := range c.cfg.SimpleStarters {
			if strings.HasPrefix(lower, starter) {
				return fmt.Sprintf("simple starter %q in a short query", starter), 0.8, true
			}
		}
	}

	for _, topic := range c.cfg.DomainTopics {
		if strings.Contains(lower, topic) {
			return fmt.Sprintf("common topic %q", topic), 0.7, true
		}
	}

	return "", 0, false
}

func (c *Classifier) mentionsDomainTerm(lower string, words []string) bool {
	for _, term := range c.cfg.DomainTerms {
		if containsTerm(lower, words, term) {
			return true
		}
	}
	return false
}

// containsTerm matches multi-word terms as substrings and single-word terms
// against whole words, so "nav" does not match "navigate".
func containsTerm(lower string, words []string, term string) bool {
	if strings.ContainsRune(term, ' ') {
		return strings.Contains(lower, term)
	}
	for _, w := range words {
		if strings.Trim(w, ".,!?;:\"'()") == term {
			return true
		}
	}
	return false
}

func (c *Classifier) classifyComplexity(lower string, words []string) entity.Classification {
	wordCount := len(words)

	for _, verb := range c.cfg.AnalyticalVerbs {
		if strings.Contains(lower, verb) {
			return c.userClassification(entity.ComplexityComplex, 0.8,
				fmt.Sprintf("analytical verb %q", verb))
		}
	}
	if wordCount >= c.cfg.ComplexMinWords {
		return c.userClassification(entity.ComplexityComplex, 0.8,
			fmt.Sprintf("long query (%d words)", wordCount))
	}

	for _, verb := range c.cfg.ExplanatoryVerbs {
		if strings.Contains(lower, verb) {
			return c.userClassification(entity.ComplexityStandard, 0.8,
				fmt.Sprintf("explanatory verb %q", verb))
		}
	}

	if wordCount <= c.cfg.SimpleMaxWords {
		if c.isShortQuestion(lower, words) {
			return c.userClassification(entity.ComplexitySimple, 0.85,
				fmt.Sprintf("short question (%d words)", wordCount))
		}
		// Short but not question-shaped: no strong signal either way.
		return c.userClassification(entity.ComplexityStandard, 0.6,
			"no classification signal, defaulting to standard")
	}

	return c.userClassification(entity.ComplexityStandard, 0.7,
		fmt.Sprintf("medium-length query (%d words)", wordCount))
}

func (c *Classifier) isShortQuestion(lower string, words []string) bool {
	if strings.HasSuffix(lower, "?") {
		return true
	}
	if len(words) == 0 {
		return false
	}
	for _, qw := range c.cfg.QuestionWords {
		if words[0] == qw {
			return true
		}
	}
	return false
}

func (c *Classifier) userClassification(complexity entity.Complexity, confidence float64, reason string) entity.Classification {
	hint, maxChunks := c.budgetFor(complexity)
	return entity.Classification{
		Kind:            entity.QueryKindUser,
		Complexity:      complexity,
		Confidence:      confidence,
		Reasoning:       reason,
		TokenBudgetHint: hint,
		MaxChunks:       maxChunks,
		Cacheable:       true,
	}
}

func (c *Classifier) budgetFor(complexity entity.Complexity) (hint, maxChunks int) {
	switch complexity {
	case entity.ComplexitySimple:
		return c.cfg.SimpleBudgetHint, c.cfg.SimpleMaxChunks
	case entity.ComplexityComplex:
		return c.cfg.ComplexBudgetHint, c.cfg.ComplexMaxChunks
	default:
		return c.cfg.StandardBudgetHint, c.cfg.StandardMaxChunks
	}
}

func (c *Classifier) defaultClassification(errText string) entity.Classification {
	cls := c.userClassification(entity.ComplexityStandard, 0.5, "fell back to standard default")
	cls.Cacheable = false
	cls.Err = errText
	return cls
}

// CacheKey returns the key Classify would assign for these inputs, so a
// caller can consult the cache before classifying.
func (c *Classifier) CacheKey(query, sessionHint string, reqCtx RequestContext) string {
	return c.cacheKey(
		strings.ToLower(strings.TrimSpace(query)),
		strings.ToLower(sessionHint),
		strings.ToLower(reqCtx.UserAgent),
	)
}

// cacheKey hashes every input that can influence the verdict.
func (c *Classifier) cacheKey(lower, hint, agent string) string {
	h := fnv.New64a()
	h.Write([]byte(lower))
	h.Write([]byte{0})
	h.Write([]byte(hint))
	h.Write([]byte{0})
	h.Write([]byte(agent))
	return strconv.FormatUint(h.Sum64(), 16)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
