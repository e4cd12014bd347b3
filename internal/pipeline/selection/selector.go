// Package selection ranks retrieved candidate chunks and trims them to fit
// the chunk share of the token budget. Candidates are never mutated, only
// filtered and reordered; the result always respects the budget, the chunk
// cap and the per-source cap.
package selection

import (
	"sort"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// TokenEstimator sizes chunk content when the retrieval service did not
// report a token count.
type TokenEstimator interface {
	Estimate(text string) int
}

// Config carries the selection tunables, fixed at construction time.
type Config struct {
	// SimilarityWeight and QualityWeight form the composite ranking score.
	SimilarityWeight float64
	QualityWeight    float64

	// MinSimilarity and MinQuality are hard floors; candidates below either
	// are dropped regardless of budget headroom.
	MinSimilarity float64
	MinQuality    float64

	// MaxPerSource caps how many chunks a single source may contribute.
	MaxPerSource int
}

func DefaultConfig() Config {
	return Config{
		SimilarityWeight: 0.7,
		QualityWeight:    0.3,
		MinSimilarity:    0.3,
		MinQuality:       0.4,
		MaxPerSource:     3,
	}
}

// Constraints are the per-request limits selection must respect.
type Constraints struct {
	TokenBudget int
	MaxChunks   int
	Complexity  entity.Complexity
}

type Selector struct {
	cfg       Config
	estimator TokenEstimator
}

func New(cfg Config, estimator TokenEstimator) *Selector {
	return &Selector{cfg: cfg, estimator: estimator}
}

// candidate pairs a chunk with its precomputed rank inputs.
type candidate struct {
	chunk entity.CandidateChunk
	score float64
	cost  int
	index int
}

// Select returns the highest-value subset of candidates that fits the
// constraints. Deterministic: the same candidates and constraints always
// produce the same result, so repeated requests select identically.
func (s *Selector) Select(candidates []entity.CandidateChunk, constraints Constraints) entity.SelectionResult {
	result := entity.SelectionResult{
		SelectedChunks:  []entity.CandidateChunk{},
		EvaluatedCount:  len(candidates),
		PerSourceCounts: map[string]int{},
	}

	if len(candidates) == 0 || constraints.TokenBudget <= 0 || constraints.MaxChunks <= 0 {
		result.DroppedCount = len(candidates)
		return result
	}

	pool := make([]candidate, 0, len(candidates))
	for i, chunk := range candidates {
		if chunk.SimilarityScore < s.cfg.MinSimilarity || chunk.QualityScore < s.cfg.MinQuality {
			continue
		}
		pool = append(pool, candidate{
			chunk: chunk,
			score: s.cfg.SimilarityWeight*chunk.SimilarityScore + s.cfg.QualityWeight*chunk.QualityScore,
			cost:  s.chunkCost(chunk),
			index: i,
		})
	}

	// Primary order is fixed up front; the per-source tie-break depends on
	// what is already selected, so it is applied per round below.
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].index < pool[j].index
	})

	remaining := constraints.TokenBudget
	for len(result.SelectedChunks) < constraints.MaxChunks {
		next := s.pickNext(pool, result.PerSourceCounts, remaining)
		if next < 0 {
			break
		}

		c := pool[next]
		result.SelectedChunks = append(result.SelectedChunks, c.chunk)
		result.EstimatedTokens += c.cost
		result.PerSourceCounts[c.chunk.SourceID]++
		remaining -= c.cost

		pool = append(pool[:next], pool[next+1:]...)
	}

	result.DroppedCount = len(candidates) - len(result.SelectedChunks)
	return result
}

// pickNext finds the best admissible candidate for this round: highest
// composite score, ties resolved toward the source with fewer chunks already
// selected, then toward the earlier input position. Returns -1 when nothing
// fits the remaining budget or every source is saturated.
func (s *Selector) pickNext(pool []candidate, perSource map[string]int, remaining int) int {
	best := -1
	for i, c := range pool {
		if c.cost > remaining {
			continue
		}
		if perSource[c.chunk.SourceID] >= s.cfg.MaxPerSource {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := pool[best]
		switch {
		case c.score > b.score:
			best = i
		case c.score == b.score && perSource[c.chunk.SourceID] < perSource[b.chunk.SourceID]:
			best = i
		case c.score == b.score && perSource[c.chunk.SourceID] == perSource[b.chunk.SourceID] && c.index < b.index:
			best = i
		}
	}
	return best
}

// chunkCost prefers the retrieval service's own token count and falls back
// to estimating from content. Every chunk costs at least one token so a
// malformed zero-cost chunk cannot bypass the budget.
func (s *Selector) chunkCost(chunk entity.CandidateChunk) int {
	cost := chunk.EstimatedTokens
	if cost <= 0 && s.estimator != nil {
		cost = s.estimator.Estimate(chunk.Content)
	}
	if cost <= 0 {
		cost = 1
	}
	return cost
}
