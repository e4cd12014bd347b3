package audit

import (
	"context"

	"github.com/ragdesk/answer-backend/internal/entity"
)

type AuditRepository interface {
	List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditRecord, error)
}
