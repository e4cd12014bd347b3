package budget

import (
	"time"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// Config fixes every budget constant at construction time. The manager
// never mutates it, so allocation is reproducible for identical inputs.
type Config struct {
	// BaseBudgets is the per-complexity starting point before adjustments.
	BaseBudgets map[entity.Complexity]int

	// Minimum and Maximum clamp the adjusted total. SYSTEM queries bypass
	// the clamp and are forced to zero.
	Minimum int
	Maximum int

	// Sub-allocation ratios. Each share is floored; the rounding remainder
	// becomes the reserve.
	ChunkRatio    float64
	PromptRatio   float64
	ResponseRatio float64

	// Expected-confidence adjustment: confident sessions need less
	// context, uncertain ones more.
	ConfidenceHighThreshold float64
	ConfidenceHighFactor    float64
	ConfidenceLowThreshold  float64
	ConfidenceLowFactor     float64

	// Conversational continuity adjustment.
	ContinuityFactor float64
	FirstTurnFactor  float64

	// Query-length adjustment (raw character counts).
	LongQueryChars   int
	LongQueryFactor  float64
	ShortQueryChars  int
	ShortQueryFactor float64

	// Domain hint adjustment, keyed by the caller-supplied domain string.
	DomainFactors map[string]float64

	// Temporal adjustment: peak load window.
	BusinessStart       int
	BusinessEnd         int
	BusinessLocation    *time.Location
	BusinessHoursFactor float64

	// User tier adjustment, keyed by tier name.
	TierFactors map[string]float64
}

func DefaultConfig() Config {
	return Config{
		BaseBudgets: map[entity.Complexity]int{
			entity.ComplexitySimple:   800,
			entity.ComplexityStandard: 1500,
			entity.ComplexityComplex:  2500,
		},
		Minimum: 200,
		Maximum: 4000,

		ChunkRatio:    0.60,
		PromptRatio:   0.25,
		ResponseRatio: 0.15,

		ConfidenceHighThreshold: 0.8,
		ConfidenceHighFactor:    0.8,
		ConfidenceLowThreshold:  0.4,
		ConfidenceLowFactor:     1.3,

		ContinuityFactor: 1.2,
		FirstTurnFactor:  0.9,

		LongQueryChars:   100,
		LongQueryFactor:  1.2,
		ShortQueryChars:  20,
		ShortQueryFactor: 0.8,

		DomainFactors: map[string]float64{
			"technical":  1.3,
			"simple_faq": 0.7,
		},

		BusinessStart:       9,
		BusinessEnd:         17,
		BusinessLocation:    time.UTC,
		BusinessHoursFactor: 1.1,

		TierFactors: map[string]float64{
			"premium": 1.2,
			"trial":   0.8,
		},
	}
}
