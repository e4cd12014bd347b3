package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/entity"
)

type stubRepo struct {
	records    []entity.AuditRecord
	err        error
	lastFilter entity.AuditFilter
}

func (s *stubRepo) List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditRecord, error) {
	s.lastFilter = filter
	return s.records, s.err
}

func testRecords() []entity.AuditRecord {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	return []entity.AuditRecord{
		{
			Kind: entity.QueryKindUser, Complexity: entity.ComplexityStandard,
			Confidence: 0.9, ConfidenceLevel: entity.ConfidenceHigh,
			TokensUsed: 600, LatencyMs: 120, CreatedAt: base,
		},
		{
			Kind: entity.QueryKindUser, Complexity: entity.ComplexitySimple,
			Confidence: 0.3, ConfidenceLevel: entity.ConfidenceVeryLow,
			IssueTypes:       []string{"low_retrieval_confidence"},
			FallbackStrategy: "rephrase_request",
			TokensUsed:       200, LatencyMs: 80, CreatedAt: base.Add(time.Minute),
		},
		{
			Kind:       entity.QueryKindSystem,
			Confidence: 1.0, ConfidenceLevel: entity.ConfidenceHigh,
			LatencyMs: 2, CreatedAt: base.Add(2 * time.Minute),
		},
		{
			Kind: entity.QueryKindUser, Complexity: entity.ComplexityComplex,
			Confidence: 0.1, ConfidenceLevel: entity.ConfidenceVeryLow,
			IssueTypes:       []string{"system_error"},
			FallbackStrategy: "generic_error", IsError: true,
			LatencyMs: 300, CreatedAt: base.Add(3 * time.Minute),
		},
	}
}

func TestList_DefaultsLimit(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	uc := NewUsecase(repo, zap.NewNop())

	_, err := uc.List(context.Background(), entity.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, repo.lastFilter.Limit)
}

func TestList_PropagatesRepositoryError(t *testing.T) {
	repo := &stubRepo{err: errors.New("connection refused")}
	uc := NewUsecase(repo, zap.NewNop())

	_, err := uc.List(context.Background(), entity.AuditFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list audit records")
}

func TestSummarize(t *testing.T) {
	s := Summarize(testRecords(), entity.AuditFilter{})

	assert.Equal(t, 4, s.TotalQueries)
	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, 2, s.FallbackCount)
	assert.InDelta(t, 0.575, s.MeanConfidence, 1e-9)
	assert.InDelta(t, 125.5, s.MeanLatencyMs, 1e-9)
	assert.EqualValues(t, 800, s.TokensUsedTotal)

	assert.Equal(t, 3, s.ByKind[string(entity.QueryKindUser)])
	assert.Equal(t, 1, s.ByKind[string(entity.QueryKindSystem)])
	assert.Equal(t, 1, s.ByComplexity[string(entity.ComplexityComplex)])
	assert.Equal(t, 2, s.ByLevel[string(entity.ConfidenceHigh)])
	assert.Equal(t, 1, s.TopIssues["system_error"])

	// Window derived from the records when the filter leaves it open.
	assert.Equal(t, time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC), s.Window.From)
	assert.Equal(t, time.Date(2026, 8, 20, 12, 3, 0, 0, time.UTC), s.Window.To)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, entity.AuditFilter{})

	assert.Zero(t, s.TotalQueries)
	assert.Zero(t, s.MeanConfidence)
	assert.False(t, s.Window.To.IsZero())
}
