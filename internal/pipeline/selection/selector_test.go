package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdesk/answer-backend/internal/entity"
)

func newTestSelector() *Selector {
	return New(DefaultConfig(), nil)
}

func chunk(id, source string, similarity, quality float64, tokens int) entity.CandidateChunk {
	return entity.CandidateChunk{
		ID:              id,
		Content:         "content of " + id,
		SimilarityScore: similarity,
		QualityScore:    quality,
		SourceID:        source,
		EstimatedTokens: tokens,
	}
}

func TestSelector_Budget(t *testing.T) {
	s := newTestSelector()

	t.Run("Should never exceed the token budget", func(t *testing.T) {
		candidates := []entity.CandidateChunk{
			chunk("a", "s1", 0.9, 0.9, 400),
			chunk("b", "s2", 0.8, 0.8, 400),
			chunk("c", "s3", 0.7, 0.7, 400),
		}
		result := s.Select(candidates, Constraints{TokenBudget: 900, MaxChunks: 8})

		assert.LessOrEqual(t, result.EstimatedTokens, 900)
		assert.Len(t, result.SelectedChunks, 2)
		assert.Equal(t, 1, result.DroppedCount)
	})

	t.Run("Should skip an oversized chunk and keep filling with smaller ones", func(t *testing.T) {
		candidates := []entity.CandidateChunk{
			chunk("big", "s1", 0.95, 0.9, 2000),
			chunk("small-1", "s2", 0.8, 0.8, 300),
			chunk("small-2", "s3", 0.7, 0.7, 300),
		}
		result := s.Select(candidates, Constraints{TokenBudget: 700, MaxChunks: 8})

		require.Len(t, result.SelectedChunks, 2)
		assert.Equal(t, "small-1", result.SelectedChunks[0].ID)
		assert.Equal(t, "small-2", result.SelectedChunks[1].ID)
		assert.Equal(t, 600, result.EstimatedTokens)
	})

	t.Run("Should return nothing on zero budget", func(t *testing.T) {
		candidates := []entity.CandidateChunk{chunk("a", "s1", 0.9, 0.9, 100)}
		result := s.Select(candidates, Constraints{TokenBudget: 0, MaxChunks: 3})

		assert.Empty(t, result.SelectedChunks)
		assert.Equal(t, 1, result.DroppedCount)
	})

	t.Run("Should hold the budget invariant across constraint grid", func(t *testing.T) {
		var candidates []entity.CandidateChunk
		for i := 0; i < 30; i++ {
			candidates = append(candidates, chunk(
				fmt.Sprintf("c%d", i),
				fmt.Sprintf("s%d", i%4),
				0.3+float64(i%7)*0.1,
				0.4+float64(i%6)*0.1,
				50+i*17,
			))
		}
		for _, budget := range []int{100, 480, 900, 2400} {
			for _, maxChunks := range []int{1, 3, 5, 8} {
				result := s.Select(candidates, Constraints{TokenBudget: budget, MaxChunks: maxChunks})
				assert.LessOrEqual(t, result.EstimatedTokens, budget,
					"budget=%d maxChunks=%d", budget, maxChunks)
				assert.LessOrEqual(t, len(result.SelectedChunks), maxChunks,
					"budget=%d maxChunks=%d", budget, maxChunks)
			}
		}
	})
}

func TestSelector_Caps(t *testing.T) {
	s := newTestSelector()

	t.Run("Should stop at max chunks", func(t *testing.T) {
		var candidates []entity.CandidateChunk
		for i := 0; i < 10; i++ {
			candidates = append(candidates, chunk(fmt.Sprintf("c%d", i), fmt.Sprintf("s%d", i), 0.9, 0.9, 10))
		}
		result := s.Select(candidates, Constraints{TokenBudget: 10000, MaxChunks: 3})

		assert.Len(t, result.SelectedChunks, 3)
		assert.Equal(t, 7, result.DroppedCount)
	})

	t.Run("Should cap chunks per source", func(t *testing.T) {
		candidates := []entity.CandidateChunk{
			chunk("a1", "dominant", 0.95, 0.9, 10),
			chunk("a2", "dominant", 0.94, 0.9, 10),
			chunk("a3", "dominant", 0.93, 0.9, 10),
			chunk("a4", "dominant", 0.92, 0.9, 10),
			chunk("b1", "other", 0.5, 0.6, 10),
		}
		result := s.Select(candidates, Constraints{TokenBudget: 10000, MaxChunks: 8})

		require.Len(t, result.SelectedChunks, 4)
		assert.Equal(t, 3, result.PerSourceCounts["dominant"])
		assert.Equal(t, 1, result.PerSourceCounts["other"])
	})
}

func TestSelector_Thresholds(t *testing.T) {
	s := newTestSelector()

	t.Run("Should drop candidates below similarity floor", func(t *testing.T) {
		candidates := []entity.CandidateChunk{
			chunk("good", "s1", 0.8, 0.8, 10),
			chunk("weak", "s2", 0.2, 0.9, 10),
		}
		result := s.Select(candidates, Constraints{TokenBudget: 1000, MaxChunks: 8})

		require.Len(t, result.SelectedChunks, 1)
		assert.Equal(t, "good", result.SelectedChunks[0].ID)
		assert.Equal(t, 2, result.EvaluatedCount)
	})

	t.Run("Should drop candidates below quality floor", func(t *testing.T) {
		candidates := []entity.CandidateChunk{
			chunk("good", "s1", 0.8, 0.8, 10),
			chunk("junk", "s2", 0.9, 0.1, 10),
		}
		result := s.Select(candidates, Constraints{TokenBudget: 1000, MaxChunks: 8})

		require.Len(t, result.SelectedChunks, 1)
		assert.Equal(t, "good", result.SelectedChunks[0].ID)
	})

	t.Run("Should select nothing when every candidate is below threshold", func(t *testing.T) {
		candidates := []entity.CandidateChunk{
			chunk("w1", "s1", 0.25, 0.9, 10),
			chunk("w2", "s2", 0.1, 0.9, 10),
		}
		result := s.Select(candidates, Constraints{TokenBudget: 1000, MaxChunks: 8})

		assert.Empty(t, result.SelectedChunks)
		assert.Equal(t, 2, result.DroppedCount)
	})
}

func TestSelector_Ordering(t *testing.T) {
	s := newTestSelector()

	t.Run("Should rank by composite score", func(t *testing.T) {
		candidates := []entity.CandidateChunk{
			chunk("mid", "s1", 0.6, 0.6, 10),
			chunk("top", "s2", 0.9, 0.9, 10),
			chunk("low", "s3", 0.4, 0.5, 10),
		}
		result := s.Select(candidates, Constraints{TokenBudget: 1000, MaxChunks: 8})

		require.Len(t, result.SelectedChunks, 3)
		assert.Equal(t, "top", result.SelectedChunks[0].ID)
		assert.Equal(t, "mid", result.SelectedChunks[1].ID)
		assert.Equal(t, "low", result.SelectedChunks[2].ID)
	})

	t.Run("Should prefer the less-used source on equal scores", func(t *testing.T) {
		candidates := []entity.CandidateChunk{
			chunk("a1", "s1", 0.8, 0.8, 10),
			chunk("a2", "s1", 0.8, 0.8, 10),
			chunk("b1", "s2", 0.8, 0.8, 10),
		}
		result := s.Select(candidates, Constraints{TokenBudget: 1000, MaxChunks: 2})

		require.Len(t, result.SelectedChunks, 2)
		// First round takes a1 (earlier input position); second round
		// prefers s2 because s1 already contributed.
		assert.Equal(t, "a1", result.SelectedChunks[0].ID)
		assert.Equal(t, "b1", result.SelectedChunks[1].ID)
	})

	t.Run("Should be deterministic for identical inputs", func(t *testing.T) {
		var candidates []entity.CandidateChunk
		for i := 0; i < 20; i++ {
			candidates = append(candidates, chunk(
				fmt.Sprintf("c%d", i),
				fmt.Sprintf("s%d", i%3),
				0.5+float64(i%5)*0.1,
				0.5+float64(i%4)*0.1,
				40+i,
			))
		}
		constraints := Constraints{TokenBudget: 400, MaxChunks: 6}

		first := s.Select(candidates, constraints)
		second := s.Select(candidates, constraints)
		assert.Equal(t, first, second)
	})
}

func TestSelector_TokenEstimation(t *testing.T) {
	t.Run("Should fall back to the estimator when candidate has no count", func(t *testing.T) {
		s := New(DefaultConfig(), fixedEstimator{tokens: 120})
		candidates := []entity.CandidateChunk{chunk("a", "s1", 0.8, 0.8, 0)}

		result := s.Select(candidates, Constraints{TokenBudget: 1000, MaxChunks: 3})
		require.Len(t, result.SelectedChunks, 1)
		assert.Equal(t, 120, result.EstimatedTokens)
	})

	t.Run("Should cost malformed chunks at least one token", func(t *testing.T) {
		s := New(DefaultConfig(), nil)
		candidates := []entity.CandidateChunk{chunk("a", "s1", 0.8, 0.8, 0)}

		result := s.Select(candidates, Constraints{TokenBudget: 1000, MaxChunks: 3})
		require.Len(t, result.SelectedChunks, 1)
		assert.Equal(t, 1, result.EstimatedTokens)
	})
}

func TestSelector_EmptyInput(t *testing.T) {
	s := newTestSelector()

	t.Run("Should handle nil candidates", func(t *testing.T) {
		result := s.Select(nil, Constraints{TokenBudget: 1000, MaxChunks: 5})
		assert.Empty(t, result.SelectedChunks)
		assert.Equal(t, 0, result.EvaluatedCount)
		assert.Equal(t, 0, result.DroppedCount)
	})
}

type fixedEstimator struct{ tokens int }

func (f fixedEstimator) Estimate(string) int { return f.tokens }
