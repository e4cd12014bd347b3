package confidence

import (
	"github.com/ragdesk/answer-backend/internal/entity"
)

// scoreRetrieval rates how well retrieval supported the answer: strongest
// match, overall match quality, whether enough passages from enough distinct
// sources were found, and how trustworthy those sources are.
func (a *Assessor) scoreRetrieval(in RetrievalInput) entity.ComponentScore {
	w := a.cfg.Retrieval

	var top, mean, count, quality, diversity float64

	switch {
	case in.absent():
		// Nothing reported: similarity evidence is missing, source quality
		// is unknown rather than bad.
		quality = 0.5
	case in.empty():
		// Searched and found nothing. Everything scores zero.
	default:
		top = topSimilarity(in.Chunks)
		mean = meanSimilarity(in.Chunks)
		count = ratio(len(in.Chunks), w.TargetChunks)
		quality = meanQuality(in.Chunks)
		diversity = ratio(distinctSources(in.Chunks), w.TargetSources)
	}

	score := clamp01(w.TopSimilarity*top +
		w.MeanSimilarity*mean +
		w.CountAdequacy*count +
		w.SourceQuality*quality +
		w.SourceDiversity*diversity)

	cs := entity.ComponentScore{
		Score: score,
		Subfactors: map[string]float64{
			"top_similarity":   top,
			"mean_similarity":  mean,
			"count_adequacy":   count,
			"source_quality":   quality,
			"source_diversity": diversity,
		},
	}

	if in.empty() {
		cs.Issues = append(cs.Issues, entity.Issue{
			Type:      entity.IssueNoRelevantSources,
			Severity:  entity.SeverityHigh,
			Component: "retrieval",
			Score:     0,
		})
	}
	if score < a.cfg.MediumThreshold {
		cs.Issues = append(cs.Issues, entity.Issue{
			Type:      entity.IssueLowRetrievalConfidence,
			Severity:  entity.SeverityMedium,
			Component: "retrieval",
			Score:     score,
		})
	}

	return cs
}

func topSimilarity(chunks []entity.CandidateChunk) float64 {
	var top float64
	for _, c := range chunks {
		if s := clamp01(c.SimilarityScore); s > top {
			top = s
		}
	}
	return top
}

func meanSimilarity(chunks []entity.CandidateChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	var sum float64
	for _, c := range chunks {
		sum += clamp01(c.SimilarityScore)
	}
	return sum / float64(len(chunks))
}

func meanQuality(chunks []entity.CandidateChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	var sum float64
	for _, c := range chunks {
		sum += clamp01(c.QualityScore)
	}
	return sum / float64(len(chunks))
}

func distinctSources(chunks []entity.CandidateChunk) int {
	seen := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		seen[c.SourceID] = struct{}{}
	}
	return len(seen)
}
