// Package audit exposes the persisted pipeline trace: listings for the API
// and aggregated reports for the downloadable formats.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/entity"
)

const defaultListLimit = 100

type Usecase struct {
	repo   AuditRepository
	logger *zap.Logger
}

func NewUsecase(repo AuditRepository, logger *zap.Logger) *Usecase {
	return &Usecase{
		repo:   repo,
		logger: logger,
	}
}

// List returns audit records matching the filter, newest first.
func (uc *Usecase) List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}

	records, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}

	ctxzap.Debug(ctx, "audit records listed", zap.Int("count", len(records)))
	return records, nil
}

// Report loads the matching records and aggregates them into a summary
// suitable for the report formatters.
func (uc *Usecase) Report(ctx context.Context, filter entity.AuditFilter) (*entity.AuditReport, error) {
	records, err := uc.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &entity.AuditReport{
		Summary: Summarize(records, filter),
		Records: records,
	}

	ctxzap.Info(ctx, "audit report built",
		zap.Int("record_count", len(records)),
		zap.Int("error_count", report.Summary.ErrorCount),
	)
	return report, nil
}

// Summarize aggregates records into the report summary. The window falls
// back to the records' own time span when the filter left it open.
func Summarize(records []entity.AuditRecord, filter entity.AuditFilter) entity.AuditSummary {
	s := entity.AuditSummary{
		TotalQueries: len(records),
		ByKind:       make(map[string]int),
		ByComplexity: make(map[string]int),
		ByLevel:      make(map[string]int),
		TopIssues:    make(map[string]int),
		Window: entity.AuditReportRange{
			From: filter.Since,
			To:   filter.Until,
		},
	}

	if len(records) == 0 {
		if s.Window.To.IsZero() {
			s.Window.To = time.Now().UTC()
		}
		return s
	}

	var confidenceSum, latencySum float64
	for _, r := range records {
		s.ByKind[string(r.Kind)]++
		if r.Complexity != "" {
			s.ByComplexity[string(r.Complexity)]++
		}
		s.ByLevel[string(r.ConfidenceLevel)]++
		for _, issue := range r.IssueTypes {
			s.TopIssues[issue]++
		}

		if r.IsError {
			s.ErrorCount++
		}
		if r.FallbackStrategy != "" {
			s.FallbackCount++
		}

		confidenceSum += r.Confidence
		latencySum += float64(r.LatencyMs)
		s.TokensUsedTotal += int64(r.TokensUsed)

		if s.Window.From.IsZero() || r.CreatedAt.Before(s.Window.From) {
			s.Window.From = r.CreatedAt
		}
		if s.Window.To.IsZero() || r.CreatedAt.After(s.Window.To) {
			s.Window.To = r.CreatedAt
		}
	}

	s.MeanConfidence = confidenceSum / float64(len(records))
	s.MeanLatencyMs = latencySum / float64(len(records))
	return s
}
