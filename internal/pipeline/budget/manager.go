// Package budget turns a classification plus situational context into a
// token budget with explainable sub-allocations. Allocation is a pure
// computation over the immutable config; the only shared state is the
// injected utilization accumulator.
package budget

import (
	"fmt"
	"math"
	"time"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// Context carries the optional situational fields that scale the base
// budget. Nil pointer fields and zero values mean "unknown" and skip the
// corresponding adjustment:
//   - HistoryTurns nil: continuity unknown; 0: confirmed first turn.
//   - ExpectedConfidence nil: no confidence expectation.
//   - QueryLength 0: length unknown.
//   - Domain/UserTier "": no hint.
//   - Timestamp zero: no temporal adjustment.
type Context struct {
	HistoryTurns       *int
	ExpectedConfidence *float64
	QueryLength        int
	Domain             string
	UserTier           string
	Timestamp          time.Time
}

type Manager struct {
	cfg   Config
	stats *Stats
}

// NewManager builds a manager around an injected stats accumulator. Pass
// a dedicated accumulator per deployment; the manager never creates
// shared state of its own.
func NewManager(cfg Config, stats *Stats) *Manager {
	if stats == nil {
		stats = NewStats()
	}
	return &Manager{cfg: cfg, stats: stats}
}

func (m *Manager) Stats() *Stats {
	return m.stats
}

// Calculate produces the allocation for one classified query. SYSTEM
// classifications always get a zero budget; everything else starts from
// the base table (or the FAQ hint), is scaled by the applicable
// adjustments in a fixed order, rounded, clamped, and split.
func (m *Manager) Calculate(cls entity.Classification, bctx Context) entity.BudgetAllocation {
	if cls.Kind == entity.QueryKindSystem {
		return entity.BudgetAllocation{
			AppliedAdjustments: []string{"system query: budget forced to 0"},
		}
	}

	base := m.baseFor(cls)
	running := float64(base)
	adjustments := make([]string, 0, 6)

	apply := func(name string, factor float64) {
		before := running
		running *= factor
		adjustments = append(adjustments,
			fmt.Sprintf("%s: %.0f -> %.0f (x%.2f)", name, before, running, factor))
	}

	if bctx.ExpectedConfidence != nil {
		switch {
		case *bctx.ExpectedConfidence > m.cfg.ConfidenceHighThreshold:
			apply("expected confidence high", m.cfg.ConfidenceHighFactor)
		case *bctx.ExpectedConfidence < m.cfg.ConfidenceLowThreshold:
			apply("expected confidence low", m.cfg.ConfidenceLowFactor)
		}
	}

	if bctx.HistoryTurns != nil {
		if *bctx.HistoryTurns > 0 {
			apply("conversation continuity", m.cfg.ContinuityFactor)
		} else {
			apply("first turn", m.cfg.FirstTurnFactor)
		}
	}

	if bctx.QueryLength > 0 {
		switch {
		case bctx.QueryLength > m.cfg.LongQueryChars:
			apply("long query", m.cfg.LongQueryFactor)
		case bctx.QueryLength < m.cfg.ShortQueryChars:
			apply("short query", m.cfg.ShortQueryFactor)
		}
	}

	if factor, ok := m.cfg.DomainFactors[bctx.Domain]; ok {
		apply(fmt.Sprintf("domain %q", bctx.Domain), factor)
	}

	if m.inBusinessHours(bctx.Timestamp) {
		apply("business hours", m.cfg.BusinessHoursFactor)
	}

	if factor, ok := m.cfg.TierFactors[bctx.UserTier]; ok {
		apply(fmt.Sprintf("tier %q", bctx.UserTier), factor)
	}

	total := int(math.Round(running))
	if total < m.cfg.Minimum {
		adjustments = append(adjustments,
			fmt.Sprintf("clamped %d -> %d (minimum)", total, m.cfg.Minimum))
		total = m.cfg.Minimum
	} else if total > m.cfg.Maximum {
		adjustments = append(adjustments,
			fmt.Sprintf("clamped %d -> %d (maximum)", total, m.cfg.Maximum))
		total = m.cfg.Maximum
	}

	alloc := m.split(total)
	alloc.AppliedAdjustments = adjustments
	return alloc
}

// baseFor looks up the starting budget. FAQ classifications have no row in
// the base table; their classifier hint is the base.
func (m *Manager) baseFor(cls entity.Classification) int {
	if cls.Kind == entity.QueryKindFAQ {
		return cls.TokenBudgetHint
	}
	if base, ok := m.cfg.BaseBudgets[cls.Complexity]; ok {
		return base
	}
	return m.cfg.BaseBudgets[entity.ComplexityStandard]
}

func (m *Manager) split(total int) entity.BudgetAllocation {
	chunks := int(float64(total) * m.cfg.ChunkRatio)
	prompt := int(float64(total) * m.cfg.PromptRatio)
	response := int(float64(total) * m.cfg.ResponseRatio)

	return entity.BudgetAllocation{
		Total:    total,
		Chunks:   chunks,
		Prompt:   prompt,
		Response: response,
		Reserve:  total - chunks - prompt - response,
	}
}

func (m *Manager) inBusinessHours(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	loc := m.cfg.BusinessLocation
	if loc == nil {
		loc = time.UTC
	}
	hour := ts.In(loc).Hour()
	return hour >= m.cfg.BusinessStart && hour < m.cfg.BusinessEnd
}

// Observe feeds back actual token usage for one completed request.
// Advisory only: it never changes an allocation already handed out.
func (m *Manager) Observe(complexity entity.Complexity, allocated, used int) {
	m.stats.Observe(complexity, allocated, used)
}
