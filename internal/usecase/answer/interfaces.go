package answer

import (
	"context"

	"github.com/ragdesk/answer-backend/internal/entity"
)

type RetrievalConnector interface {
	Retrieve(ctx context.Context, req *entity.RetrievalRequest) (*entity.RetrievalResult, error)
}

type GenerationConnector interface {
	AssemblePrompt(ctx context.Context, req *entity.AssemblePromptRequest) (*entity.AssembledPrompt, error)
	Generate(ctx context.Context, req *entity.GenerateRequest) (*entity.Generation, error)
}

// AuditRepository receives one row per answered query. Writes are
// fire-and-forget from the usecase's perspective.
type AuditRepository interface {
	Create(ctx context.Context, record *entity.AuditRecord) error
}

type ConversationRepository interface {
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]entity.ConversationTurn, error)
	Append(ctx context.Context, turns ...entity.ConversationTurn) error
}
