package validator

import (
	"fmt"

	"github.com/ragdesk/answer-backend/internal/entity"
)

const maxAuditPageSize = 500

// ValidateAuditFilter validates audit listing parameters
func (v *Validator) ValidateAuditFilter(filter *entity.AuditFilter) error {
	if filter.Limit < 0 || filter.Limit > maxAuditPageSize {
		return fmt.Errorf("%w: limit must be between 0 and %d, got %d",
			entity.ErrInvalidParameter, maxAuditPageSize, filter.Limit)
	}

	if filter.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d",
			entity.ErrInvalidParameter, filter.Offset)
	}

	if filter.Kind != "" {
		switch filter.Kind {
		case entity.QueryKindSystem, entity.QueryKindFAQ, entity.QueryKindUser:
		default:
			return fmt.Errorf("%w: unknown kind %q", entity.ErrInvalidParameter, filter.Kind)
		}
	}

	if filter.Complexity != "" {
		switch filter.Complexity {
		case entity.ComplexitySimple, entity.ComplexityStandard, entity.ComplexityComplex:
		default:
			return fmt.Errorf("%w: unknown complexity %q", entity.ErrInvalidParameter, filter.Complexity)
		}
	}

	if !filter.Since.IsZero() && !filter.Until.IsZero() && filter.Until.Before(filter.Since) {
		return fmt.Errorf("%w: until precedes since", entity.ErrInvalidParameter)
	}

	return nil
}

// ValidateReportFormat validates the report format parameter
func (v *Validator) ValidateReportFormat(format entity.ReportFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: format must be one of: markdown, pdf, xlsx", entity.ErrInvalidFormat)
	}
	return nil
}
