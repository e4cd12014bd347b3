package audit

import (
	"context"

	"github.com/ragdesk/answer-backend/internal/entity"
)

type AuditUsecase interface {
	List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditRecord, error)
	Report(ctx context.Context, filter entity.AuditFilter) (*entity.AuditReport, error)
}
