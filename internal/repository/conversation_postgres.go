package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// ConversationRepository defines the interface for conversation history
// persistence
type ConversationRepository interface {
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]entity.ConversationTurn, error)
	Append(ctx context.Context, turns ...entity.ConversationTurn) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ ConversationRepository = &ConversationPostgres{}

// ConversationPostgres implements ConversationRepository using PostgreSQL
type ConversationPostgres struct {
	db *pgxpool.Pool
}

func NewConversationPostgres(db *pgxpool.Pool) *ConversationPostgres {
	return &ConversationPostgres{db: db}
}

// RecentTurns returns up to limit turns of a session, oldest first.
func (r *ConversationPostgres) RecentTurns(ctx context.Context, sessionID string, limit int) ([]entity.ConversationTurn, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM conversation_turns
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversation turns: %w", err)
	}
	defer rows.Close()

	var turns []entity.ConversationTurn
	for rows.Next() {
		turn, err := scanConversationTurn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversation turns: %w", err)
	}

	// The query returns newest first so LIMIT keeps the most recent ones;
	// callers expect chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

func (r *ConversationPostgres) Append(ctx context.Context, turns ...entity.ConversationTurn) error {
	batch := &pgx.Batch{}
	for _, turn := range turns {
		turnID, err := uuid.Parse(turn.ID)
		if err != nil {
			return fmt.Errorf("invalid conversation turn ID: %w", err)
		}

		batch.Queue(`
			INSERT INTO conversation_turns (id, session_id, role, content, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			pgtype.UUID{Bytes: turnID, Valid: true},
			turn.SessionID,
			string(turn.Role),
			turn.Content,
			turn.CreatedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range turns {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("append conversation turn: %w", err)
		}
	}

	return nil
}

func (r *ConversationPostgres) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM conversation_turns WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete conversation turns: %w", err)
	}

	return tag.RowsAffected(), nil
}
