package confidence

import (
	"strings"

	"github.com/ragdesk/answer-backend/internal/entity"
)

var questionWords = []string{
	"what", "who", "when", "where", "which", "why", "how",
	"is", "are", "does", "do", "can", "should",
}

var intentVerbs = []string{
	"explain", "describe", "compare", "list", "show", "tell",
	"find", "calculate", "summarize", "analyze", "analyse",
}

// scoreContext rates how answerable the query was: is it phrased clearly,
// how hard is it, does it speak the deployment's domain language, and is
// there conversation history to lean on.
func (a *Assessor) scoreContext(in ContextInput) entity.ComponentScore {
	w := a.cfg.Context

	clarity := queryClarity(in.Query)
	fit := complexityFit(in.Complexity)
	overlap := ratio(domainOverlap(in.Query, in.DomainTerms), w.TargetDomainTerms)
	history := 0.3
	if in.HistoryTurns > 0 {
		history = 1.0
	}

	score := clamp01(w.QueryClarity*clarity +
		w.ComplexityFit*fit +
		w.DomainOverlap*overlap +
		w.HistoryPresence*history)

	cs := entity.ComponentScore{
		Score: score,
		Subfactors: map[string]float64{
			"query_clarity":    clarity,
			"complexity_fit":   fit,
			"domain_overlap":   overlap,
			"history_presence": history,
		},
	}

	if clarity < w.MinClarity {
		cs.Issues = append(cs.Issues, entity.Issue{
			Type:      entity.IssueQueryAmbiguity,
			Severity:  entity.SeverityMedium,
			Component: "context",
			Score:     clarity,
		})
	}

	return cs
}

// queryClarity combines three signals: the query is shaped like a question,
// it names an identifiable intent, and its length is in the band where
// questions tend to be well-formed.
func queryClarity(query string) float64 {
	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" {
		return 0
	}
	words := strings.Fields(lower)

	var clarity float64

	if strings.HasSuffix(lower, "?") {
		clarity += 0.4
	} else if len(words) > 0 && containsWord(questionWords, words[0]) {
		clarity += 0.4
	}

	for _, v := range intentVerbs {
		if strings.Contains(lower, v) {
			clarity += 0.3
			break
		}
	}

	if len(words) >= 3 && len(words) <= 30 {
		clarity += 0.3
	}

	return clamp01(clarity)
}

// complexityFit discounts confidence for harder queries. Unknown complexity
// (FAQ traffic or a classifier error default) is scored at the standard tier.
func complexityFit(complexity entity.Complexity) float64 {
	switch complexity {
	case entity.ComplexitySimple:
		return 1.0
	case entity.ComplexityComplex:
		return 0.5
	default:
		return 0.7
	}
}

// domainOverlap counts distinct vocabulary terms present in the query.
func domainOverlap(query string, terms []string) int {
	lower := strings.ToLower(query)
	matched := 0
	for _, t := range terms {
		if t != "" && strings.Contains(lower, t) {
			matched++
		}
	}
	return matched
}

func containsWord(haystack []string, needle string) bool {
	for _, w := range haystack {
		if w == needle {
			return true
		}
	}
	return false
}
