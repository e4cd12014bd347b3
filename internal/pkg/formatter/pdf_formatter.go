package formatter

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"github.com/ragdesk/answer-backend/internal/entity"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// Relative paths where the TTF font may live.
	// In Docker runtime we copy fonts to /app/ttf,
	// so for the compiled binary the path is ./ttf/DejaVuSans.ttf.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source-relative path (useful when running from repo root with `go run`).
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}

	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}

	return ""
}

func (pf *PDFFormatter) Format(report *entity.AuditReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Try to use UTF-8 capable DejaVuSans font, bundled with the project.
	fontName := "Arial"
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
	}

	s := report.Summary

	pdf.SetFont(fontName, "B", 18)
	pdf.Cell(0, 10, baseTitle)
	pdf.Ln(10)

	pdf.SetFont(fontName, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Window: %s - %s",
		s.Window.From.Format("2006-01-02 15:04"),
		s.Window.To.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pf.writeKV(pdf, fontName, "Total queries", fmt.Sprintf("%d", s.TotalQueries))
	pf.writeKV(pdf, fontName, "Errors", fmt.Sprintf("%d", s.ErrorCount))
	pf.writeKV(pdf, fontName, "Fallbacks", fmt.Sprintf("%d", s.FallbackCount))
	pf.writeKV(pdf, fontName, "Mean confidence", fmt.Sprintf("%.3f", s.MeanConfidence))
	pf.writeKV(pdf, fontName, "Mean latency", fmt.Sprintf("%.1f ms", s.MeanLatencyMs))
	pf.writeKV(pdf, fontName, "Tokens used", fmt.Sprintf("%d", s.TokensUsedTotal))
	pdf.Ln(6)

	pf.writeSection(pdf, fontName, "By query kind", s.ByKind)
	pf.writeSection(pdf, fontName, "By complexity", s.ByComplexity)
	pf.writeSection(pdf, fontName, "By confidence level", s.ByLevel)
	pf.writeSection(pdf, fontName, "Top issues", s.TopIssues)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) writeKV(pdf *gofpdf.Fpdf, fontName, key, value string) {
	pdf.SetFont(fontName, "B", 10)
	pdf.Cell(60, 6, key)
	pdf.SetFont(fontName, "", 10)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func (pf *PDFFormatter) writeSection(pdf *gofpdf.Fpdf, fontName, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pdf.SetFont(fontName, "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	for _, k := range keys {
		pf.writeKV(pdf, fontName, k, fmt.Sprintf("%d", counts[k]))
	}
	pdf.Ln(4)
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
