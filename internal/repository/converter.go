package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// textOrNull maps an empty string to a SQL NULL.
func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func scanAuditRecord(row pgx.Row) (entity.AuditRecord, error) {
	var (
		id               pgtype.UUID
		sessionID        pgtype.Text
		query            string
		kind             string
		complexity       pgtype.Text
		budgetTotal      int
		chunksSelected   int
		chunksDropped    int
		tokensUsed       int
		confidence       float64
		confidenceLevel  string
		issueTypes       []string
		fallbackStrategy pgtype.Text
		isError          bool
		latencyMs        int64
		createdAt        pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &sessionID, &query, &kind, &complexity, &budgetTotal,
		&chunksSelected, &chunksDropped, &tokensUsed, &confidence, &confidenceLevel,
		&issueTypes, &fallbackStrategy, &isError, &latencyMs, &createdAt,
	)
	if err != nil {
		return entity.AuditRecord{}, err
	}

	recordUUID := uuid.UUID(id.Bytes)

	return entity.AuditRecord{
		ID:               recordUUID.String(),
		SessionID:        sessionID.String,
		Query:            query,
		Kind:             entity.QueryKind(kind),
		Complexity:       entity.Complexity(complexity.String),
		BudgetTotal:      budgetTotal,
		ChunksSelected:   chunksSelected,
		ChunksDropped:    chunksDropped,
		TokensUsed:       tokensUsed,
		Confidence:       confidence,
		ConfidenceLevel:  entity.ConfidenceLevel(confidenceLevel),
		IssueTypes:       issueTypes,
		FallbackStrategy: fallbackStrategy.String,
		IsError:          isError,
		LatencyMs:        latencyMs,
		CreatedAt:        createdAt.Time,
	}, nil
}

func scanConversationTurn(row pgx.Row) (entity.ConversationTurn, error) {
	var (
		id        pgtype.UUID
		sessionID string
		role      string
		content   string
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &sessionID, &role, &content, &createdAt); err != nil {
		return entity.ConversationTurn{}, err
	}

	turnUUID := uuid.UUID(id.Bytes)

	return entity.ConversationTurn{
		ID:        turnUUID.String(),
		SessionID: sessionID,
		Role:      entity.TurnRole(role),
		Content:   content,
		CreatedAt: createdAt.Time,
	}, nil
}
