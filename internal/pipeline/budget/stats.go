package budget

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// utilization thresholds for tuning recommendations.
const (
	underusedBelow = 0.5
	strainedAbove  = 0.9
	// minObservations gates recommendations so a handful of requests
	// cannot swing them.
	minObservations = 20
)

type complexityTotals struct {
	Count          int64
	TotalAllocated int64
	TotalUsed      int64
}

// Stats accumulates per-complexity utilization running totals. Multiple
// request goroutines feed it concurrently; reads return copies.
type Stats struct {
	mu     sync.Mutex
	totals map[entity.Complexity]*complexityTotals
}

func NewStats() *Stats {
	return &Stats{totals: make(map[entity.Complexity]*complexityTotals)}
}

func (s *Stats) Observe(complexity entity.Complexity, allocated, used int) {
	if complexity == "" || allocated < 0 || used < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.totals[complexity]
	if !ok {
		t = &complexityTotals{}
		s.totals[complexity] = t
	}
	t.Count++
	t.TotalAllocated += int64(allocated)
	t.TotalUsed += int64(used)
}

// UtilizationSnapshot is a point-in-time copy of one complexity's totals.
type UtilizationSnapshot struct {
	Complexity     entity.Complexity
	Count          int64
	TotalAllocated int64
	TotalUsed      int64
}

// Utilization returns the used/allocated ratio, or 0 when nothing was
// allocated yet.
func (u UtilizationSnapshot) Utilization() float64 {
	if u.TotalAllocated == 0 {
		return 0
	}
	return float64(u.TotalUsed) / float64(u.TotalAllocated)
}

// Snapshot returns copies of all accumulated totals, ordered by complexity
// name for stable output.
func (s *Stats) Snapshot() []UtilizationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UtilizationSnapshot, 0, len(s.totals))
	for complexity, t := range s.totals {
		out = append(out, UtilizationSnapshot{
			Complexity:     complexity,
			Count:          t.Count,
			TotalAllocated: t.TotalAllocated,
			TotalUsed:      t.TotalUsed,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Complexity < out[j].Complexity })
	return out
}

// Recommendations derives advisory base-budget tuning hints from the
// accumulated utilization. It never mutates anything.
func (s *Stats) Recommendations() []string {
	var recs []string
	for _, snap := range s.Snapshot() {
		if snap.Count < minObservations {
			continue
		}
		ratio := snap.Utilization()
		switch {
		case ratio < underusedBelow:
			recs = append(recs, fmt.Sprintf(
				"%s budgets are underused (%.0f%% utilization over %d requests); consider lowering the base",
				snap.Complexity, ratio*100, snap.Count))
		case ratio > strainedAbove:
			recs = append(recs, fmt.Sprintf(
				"%s budgets are strained (%.0f%% utilization over %d requests); consider raising the base",
				snap.Complexity, ratio*100, snap.Count))
		}
	}
	return recs
}
