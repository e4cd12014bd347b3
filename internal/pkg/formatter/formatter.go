package formatter

import (
	"fmt"

	"github.com/ragdesk/answer-backend/internal/entity"
)

const baseTitle = "Answer Pipeline Audit Report"

type Formatter interface {
	Format(report *entity.AuditReport) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ReportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	case entity.FormatXLSX:
		return NewXLSXFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
