package confidence

import (
	"strings"

	"github.com/ragdesk/answer-backend/internal/entity"
)

var transitionWords = []string{
	"however", "therefore", "additionally", "furthermore",
	"for example", "in addition", "moreover", "as a result",
	"in contrast", "consequently",
}

// scoreContent rates the answer text: are claims cited, do the citations
// actually point at retrieved passages, is the answer substantial, and does
// it read as connected prose rather than fragments or loops.
func (a *Assessor) scoreContent(in ContentInput) entity.ComponentScore {
	w := a.cfg.Content

	citationCount := ratio(len(in.Citations), w.TargetCitations)
	validity := citationValidity(in.Citations, in.Chunks)
	length := ratio(len(in.Response), w.TargetLength)
	coherence := coherenceScore(in.Response)

	score := clamp01(w.CitationCount*citationCount +
		w.CitationValidity*validity +
		w.LengthAdequacy*length +
		w.Coherence*coherence)

	cs := entity.ComponentScore{
		Score: score,
		Subfactors: map[string]float64{
			"citation_count":    citationCount,
			"citation_validity": validity,
			"length_adequacy":   length,
			"coherence":         coherence,
		},
	}

	// Citation quality is only judged when retrieval produced sources to
	// cite; an uncited answer over an empty corpus is a retrieval problem,
	// not a citation problem.
	if len(in.Chunks) > 0 && validity < w.MinCitationValidity {
		cs.Issues = append(cs.Issues, entity.Issue{
			Type:      entity.IssuePoorCitationQuality,
			Severity:  entity.SeverityMedium,
			Component: "content",
			Score:     validity,
		})
	}

	return cs
}

// citationValidity is the fraction of citations whose chunk or source is
// actually among the retrieved passages. With no citations there is nothing
// to validate; the fraction defaults to a neutral 0.5 and the count
// sub-factor carries the penalty.
func citationValidity(citations []entity.Citation, chunks []entity.CandidateChunk) float64 {
	if len(citations) == 0 {
		return 0.5
	}

	byChunk := make(map[string]struct{}, len(chunks))
	bySource := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		byChunk[c.ID] = struct{}{}
		bySource[c.SourceID] = struct{}{}
	}

	valid := 0
	for _, cit := range citations {
		if _, ok := byChunk[cit.ChunkID]; ok {
			valid++
			continue
		}
		if _, ok := bySource[cit.SourceID]; ok {
			valid++
		}
	}
	return float64(valid) / float64(len(citations))
}

// coherenceScore is a cheap prose heuristic: sentence structure, transition
// words and term continuity raise it, a single word dominating the text
// lowers it.
func coherenceScore(response string) float64 {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)

	var score float64

	sentences := splitSentences(lower)
	if len(sentences) >= 2 {
		score += 0.4
	} else if len(sentences) == 1 && strings.ContainsAny(trimmed, ".!?") {
		score += 0.2
	}

	for _, t := range transitionWords {
		if strings.Contains(lower, t) {
			score += 0.2
			break
		}
	}

	if hasTermContinuity(sentences) {
		score += 0.2
	}

	words := strings.Fields(lower)
	score += 0.2 * diversityRatio(words)

	if excessiveRepetition(words) {
		score -= 0.3
	}

	return clamp01(score)
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := raw[:0]
	for _, s := range raw {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, strings.TrimSpace(s))
		}
	}
	return sentences
}

// hasTermContinuity reports whether some content word (5+ characters)
// recurs across sentences, a weak signal that the text stays on topic.
func hasTermContinuity(sentences []string) bool {
	if len(sentences) < 2 {
		return false
	}
	seen := make(map[string]int)
	for i, s := range sentences {
		for _, w := range strings.Fields(s) {
			if len(w) < 5 {
				continue
			}
			if prev, ok := seen[w]; ok && prev != i {
				return true
			}
			seen[w] = i
		}
	}
	return false
}

// diversityRatio is distinct words over total, dampened for very short
// texts where the ratio is trivially high.
func diversityRatio(words []string) float64 {
	if len(words) < 5 {
		return 0.5
	}
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}
	return clamp01(float64(len(distinct)) / float64(len(words)))
}

// excessiveRepetition fires when one non-trivial word makes up over 15% of
// the text, the typical shape of a generation loop.
func excessiveRepetition(words []string) bool {
	if len(words) < 10 {
		return false
	}
	counts := make(map[string]int)
	for _, w := range words {
		if len(w) < 4 {
			continue
		}
		counts[w]++
		if float64(counts[w]) > 0.15*float64(len(words)) {
			return true
		}
	}
	return false
}
