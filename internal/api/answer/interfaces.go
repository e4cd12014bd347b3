package answer

import (
	"context"

	"github.com/ragdesk/answer-backend/internal/entity"
	"github.com/ragdesk/answer-backend/internal/pipeline/budget"
)

type AnswerUsecase interface {
	GenerateResponse(ctx context.Context, req *entity.AnswerRequest, meta entity.RequestMeta) (*entity.AnswerResponse, error)
	UtilizationReport() ([]budget.UtilizationSnapshot, []string)
}
