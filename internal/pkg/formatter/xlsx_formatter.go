package formatter

import (
	"bytes"
	"sort"

	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/ragdesk/answer-backend/internal/entity"
)

const (
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xlsxFileExtension = ".xlsx"
)

type XLSXFormatter struct{}

func NewXLSXFormatter() *XLSXFormatter {
	return &XLSXFormatter{}
}

func (xf *XLSXFormatter) Format(report *entity.AuditReport) ([]byte, error) {
	wb := spreadsheet.New()
	defer wb.Close()

	xf.addSummarySheet(wb, &report.Summary)
	xf.addRecordsSheet(wb, report.Records)

	var buf bytes.Buffer
	if err := wb.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (xf *XLSXFormatter) addSummarySheet(wb *spreadsheet.Workbook, s *entity.AuditSummary) {
	sheet := wb.AddSheet()
	sheet.SetName("Summary")

	addStringRow(sheet, baseTitle, "")
	addStringRow(sheet, "From", s.Window.From.Format("2006-01-02 15:04"))
	addStringRow(sheet, "To", s.Window.To.Format("2006-01-02 15:04"))
	sheet.AddRow()

	addNumberRow(sheet, "Total queries", float64(s.TotalQueries))
	addNumberRow(sheet, "Errors", float64(s.ErrorCount))
	addNumberRow(sheet, "Fallbacks", float64(s.FallbackCount))
	addNumberRow(sheet, "Mean confidence", s.MeanConfidence)
	addNumberRow(sheet, "Mean latency ms", s.MeanLatencyMs)
	addNumberRow(sheet, "Tokens used", float64(s.TokensUsedTotal))
	sheet.AddRow()

	addCountBlock(sheet, "By query kind", s.ByKind)
	addCountBlock(sheet, "By complexity", s.ByComplexity)
	addCountBlock(sheet, "By confidence level", s.ByLevel)
	addCountBlock(sheet, "Top issues", s.TopIssues)
}

func (xf *XLSXFormatter) addRecordsSheet(wb *spreadsheet.Workbook, records []entity.AuditRecord) {
	sheet := wb.AddSheet()
	sheet.SetName("Records")

	header := sheet.AddRow()
	for _, h := range []string{
		"Time", "Session", "Kind", "Complexity", "Budget",
		"Chunks selected", "Chunks dropped", "Tokens used",
		"Confidence", "Level", "Fallback", "Error",
	} {
		header.AddCell().SetString(h)
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(r.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(r.SessionID)
		row.AddCell().SetString(string(r.Kind))
		row.AddCell().SetString(string(r.Complexity))
		row.AddCell().SetNumber(float64(r.BudgetTotal))
		row.AddCell().SetNumber(float64(r.ChunksSelected))
		row.AddCell().SetNumber(float64(r.ChunksDropped))
		row.AddCell().SetNumber(float64(r.TokensUsed))
		row.AddCell().SetNumber(r.Confidence)
		row.AddCell().SetString(string(r.ConfidenceLevel))
		row.AddCell().SetString(r.FallbackStrategy)
		row.AddCell().SetBool(r.IsError)
	}
}

func addStringRow(sheet spreadsheet.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	if value != "" {
		row.AddCell().SetString(value)
	}
}

func addNumberRow(sheet spreadsheet.Sheet, key string, value float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetNumber(value)
}

func addCountBlock(sheet spreadsheet.Sheet, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	addStringRow(sheet, title, "")
	for _, k := range keys {
		addNumberRow(sheet, k, float64(counts[k]))
	}
	sheet.AddRow()
}

func (xf *XLSXFormatter) ContentType() string {
	return xlsxContentType
}

func (xf *XLSXFormatter) FileExtension() string {
	return xlsxFileExtension
}
