package answer

import "github.com/ragdesk/answer-backend/internal/pipeline/budget"

type utilizationBucket struct {
	Complexity     string  `json:"complexity"`
	Count          int64   `json:"count"`
	TotalAllocated int64   `json:"total_allocated"`
	TotalUsed      int64   `json:"total_used"`
	UtilizationPct float64 `json:"utilization_pct"`
}

type statsResponse struct {
	Utilization     []utilizationBucket `json:"utilization"`
	Recommendations []string            `json:"recommendations"`
}

func toStatsResponse(snapshots []budget.UtilizationSnapshot, recommendations []string) *statsResponse {
	buckets := make([]utilizationBucket, 0, len(snapshots))
	for _, s := range snapshots {
		buckets = append(buckets, utilizationBucket{
			Complexity:     string(s.Complexity),
			Count:          s.Count,
			TotalAllocated: s.TotalAllocated,
			TotalUsed:      s.TotalUsed,
			UtilizationPct: s.Utilization() * 100,
		})
	}
	return &statsResponse{
		Utilization:     buckets,
		Recommendations: recommendations,
	}
}
