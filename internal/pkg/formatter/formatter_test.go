package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdesk/answer-backend/internal/entity"
)

func sampleReport() *entity.AuditReport {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return &entity.AuditReport{
		Summary: entity.AuditSummary{
			TotalQueries:    42,
			ErrorCount:      2,
			FallbackCount:   5,
			MeanConfidence:  0.71,
			MeanLatencyMs:   830.5,
			TokensUsedTotal: 61234,
			ByKind:          map[string]int{"USER": 30, "FAQ": 10, "SYSTEM": 2},
			ByComplexity:    map[string]int{"simple": 12, "standard": 20, "complex": 8},
			ByLevel:         map[string]int{"high": 15, "medium": 20, "low": 7},
			TopIssues:       map[string]int{"low_retrieval_confidence": 4},
			Window: entity.AuditReportRange{
				From: from,
				To:   from.AddDate(0, 0, 7),
			},
		},
		Records: []entity.AuditRecord{
			{
				ID:              "rec-1",
				SessionID:       "sess-1",
				Kind:            entity.QueryKindUser,
				Complexity:      entity.ComplexityStandard,
				BudgetTotal:     1500,
				ChunksSelected:  4,
				ChunksDropped:   2,
				TokensUsed:      1180,
				Confidence:      0.74,
				ConfidenceLevel: entity.ConfidenceMedium,
				CreatedAt:       from.Add(2 * time.Hour),
			},
		},
	}
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	t.Run("Should create formatter for each supported format", func(t *testing.T) {
		for _, format := range []entity.ReportFormat{
			entity.FormatMarkdown,
			entity.FormatPDF,
			entity.FormatXLSX,
		} {
			fmtr, err := factory.Create(format)
			require.NoError(t, err)
			assert.NotNil(t, fmtr)
		}
	})

	t.Run("Should fail on unsupported format", func(t *testing.T) {
		fmtr, err := factory.Create(entity.ReportFormat("csv"))
		assert.Error(t, err)
		assert.Nil(t, fmtr)
	})
}

func TestMarkdownFormatter(t *testing.T) {
	mf := NewMarkdownFormatter()

	t.Run("Should render summary and records", func(t *testing.T) {
		out, err := mf.Format(sampleReport())
		require.NoError(t, err)

		text := string(out)
		assert.Contains(t, text, "# Answer Pipeline Audit Report")
		assert.Contains(t, text, "| Total queries | 42 |")
		assert.Contains(t, text, "| Mean confidence | 0.710 |")
		assert.Contains(t, text, "low_retrieval_confidence")
		assert.Contains(t, text, "| USER | 30 |")
		assert.Contains(t, text, "## Records")
	})

	t.Run("Should omit records section when empty", func(t *testing.T) {
		report := sampleReport()
		report.Records = nil

		out, err := mf.Format(report)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "## Records")
	})

	t.Run("Should report markdown content type", func(t *testing.T) {
		assert.Equal(t, "text/markdown; charset=utf-8", mf.ContentType())
		assert.Equal(t, ".md", mf.FileExtension())
	})
}

func TestPDFFormatter(t *testing.T) {
	pf := NewPDFFormatter()

	t.Run("Should produce a PDF document", func(t *testing.T) {
		out, err := pf.Format(sampleReport())
		require.NoError(t, err)
		require.NotEmpty(t, out)
		assert.Equal(t, "%PDF", string(out[:4]))
	})

	t.Run("Should report pdf content type", func(t *testing.T) {
		assert.Equal(t, "application/pdf", pf.ContentType())
		assert.Equal(t, ".pdf", pf.FileExtension())
	})
}

func TestXLSXFormatter(t *testing.T) {
	xf := NewXLSXFormatter()

	t.Run("Should produce a workbook", func(t *testing.T) {
		out, err := xf.Format(sampleReport())
		require.NoError(t, err)
		require.NotEmpty(t, out)
		// XLSX files are zip archives.
		assert.Equal(t, "PK", string(out[:2]))
	})

	t.Run("Should report xlsx content type", func(t *testing.T) {
		assert.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			xf.ContentType())
		assert.Equal(t, ".xlsx", xf.FileExtension())
	})
}
