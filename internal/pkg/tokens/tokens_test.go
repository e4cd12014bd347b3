package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimator_Estimate(t *testing.T) {
	t.Run("Should return zero for empty text", func(t *testing.T) {
		e := NewEstimator()
		assert.Equal(t, 0, e.Estimate(""))
	})

	t.Run("Should return positive count for non-empty text", func(t *testing.T) {
		e := NewEstimator()
		assert.Greater(t, e.Estimate("hello world"), 0)
	})

	t.Run("Should grow with input length", func(t *testing.T) {
		e := NewEstimator()
		short := e.Estimate("hello")
		long := e.Estimate(strings.Repeat("hello world, ", 50))
		assert.Greater(t, long, short)
	})
}

func TestEstimator_Heuristic(t *testing.T) {
	// Zero-value estimator has no encoder and always uses the heuristic.
	e := &Estimator{}

	t.Run("Should round up to whole tokens", func(t *testing.T) {
		assert.Equal(t, 1, e.Estimate("abc"))
		assert.Equal(t, 1, e.Estimate("abcd"))
		assert.Equal(t, 2, e.Estimate("abcde"))
	})

	t.Run("Should estimate four characters per token", func(t *testing.T) {
		assert.Equal(t, 25, e.Estimate(strings.Repeat("a", 100)))
	})
}
