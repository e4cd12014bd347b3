package formatter

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ragdesk/answer-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(report *entity.AuditReport) ([]byte, error) {
	s := report.Summary

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	fmt.Fprintf(&buf, "Window: %s — %s\n\n",
		s.Window.From.Format("2006-01-02 15:04"),
		s.Window.To.Format("2006-01-02 15:04"))

	fmt.Fprintf(&buf, "## Summary\n\n")
	fmt.Fprintf(&buf, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&buf, "| Total queries | %d |\n", s.TotalQueries)
	fmt.Fprintf(&buf, "| Errors | %d |\n", s.ErrorCount)
	fmt.Fprintf(&buf, "| Fallbacks | %d |\n", s.FallbackCount)
	fmt.Fprintf(&buf, "| Mean confidence | %.3f |\n", s.MeanConfidence)
	fmt.Fprintf(&buf, "| Mean latency | %.1f ms |\n", s.MeanLatencyMs)
	fmt.Fprintf(&buf, "| Tokens used | %d |\n\n", s.TokensUsedTotal)

	writeCountTable(&buf, "By query kind", s.ByKind)
	writeCountTable(&buf, "By complexity", s.ByComplexity)
	writeCountTable(&buf, "By confidence level", s.ByLevel)
	writeCountTable(&buf, "Top issues", s.TopIssues)

	if len(report.Records) > 0 {
		fmt.Fprintf(&buf, "## Records\n\n")
		fmt.Fprintf(&buf, "| Time | Kind | Complexity | Budget | Tokens | Confidence | Fallback |\n")
		fmt.Fprintf(&buf, "|---|---|---|---|---|---|---|\n")
		for _, r := range report.Records {
			fmt.Fprintf(&buf, "| %s | %s | %s | %d | %d | %.2f | %s |\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.Kind, r.Complexity, r.BudgetTotal, r.TokensUsed, r.Confidence,
				orDash(r.FallbackStrategy))
		}
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

func writeCountTable(buf *bytes.Buffer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(buf, "## %s\n\n", title)
	fmt.Fprintf(buf, "| | Count |\n|---|---|\n")
	for _, k := range keys {
		fmt.Fprintf(buf, "| %s | %d |\n", k, counts[k])
	}
	buf.WriteByte('\n')
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
