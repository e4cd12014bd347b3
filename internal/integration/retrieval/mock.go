package retrieval

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// MockConnector serves deterministic fund-domain passages for local
// development without a retrieval service.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

var mockChunks = []entity.CandidateChunk{
	{
		ID:              "mock-nav-1",
		Content:         "The net asset value (NAV) of the fund is calculated daily after market close by dividing total net assets by the number of outstanding shares.",
		SimilarityScore: 0.91,
		QualityScore:    0.85,
		SourceID:        "fund-handbook",
		EstimatedTokens: 34,
	},
	{
		ID:              "mock-nav-2",
		Content:         "NAV publication happens no later than 20:00 CET on every trading day; delayed publications are announced on the status page.",
		SimilarityScore: 0.84,
		QualityScore:    0.8,
		SourceID:        "ops-runbook",
		EstimatedTokens: 29,
	},
	{
		ID:              "mock-redemption-1",
		Content:         "Redemption requests received before the 14:00 cut-off are executed at the same day's NAV; later requests roll to the next trading day.",
		SimilarityScore: 0.78,
		QualityScore:    0.82,
		SourceID:        "fund-handbook",
		EstimatedTokens: 31,
	},
	{
		ID:              "mock-fees-1",
		Content:         "The ongoing charges figure covers management and administration fees; transaction costs are reported separately in the annual report.",
		SimilarityScore: 0.66,
		QualityScore:    0.75,
		SourceID:        "fee-schedule",
		EstimatedTokens: 27,
	},
}

// Retrieve returns the canned chunk set. Queries mentioning "nonexistent"
// get an explicitly empty result so the no-sources path can be exercised
// end to end.
func (m *MockConnector) Retrieve(ctx context.Context, req *entity.RetrievalRequest) (*entity.RetrievalResult, error) {
	ctxzap.Info(ctx, "[MOCK] retrieving passages",
		zap.String("query", req.Query),
		zap.Int("max_results", req.Options.MaxResults),
	)

	if strings.Contains(strings.ToLower(req.Query), "nonexistent") {
		return &entity.RetrievalResult{
			Chunks:          []entity.CandidateChunk{},
			ConfidenceScore: 0,
			QueryAnalysis:   "no matching passages",
		}, nil
	}

	chunks := mockChunks
	if req.Options.MaxResults > 0 && req.Options.MaxResults < len(chunks) {
		chunks = chunks[:req.Options.MaxResults]
	}

	out := make([]entity.CandidateChunk, len(chunks))
	copy(out, chunks)

	ctxzap.Debug(ctx, "[MOCK] passages retrieved", zap.Int("chunk_count", len(out)))

	return &entity.RetrievalResult{
		Chunks:          out,
		ConfidenceScore: 0.85,
		QueryAnalysis:   "mock keyword analysis",
	}, nil
}
