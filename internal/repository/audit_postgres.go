package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// AuditRepository defines the interface for audit record persistence
type AuditRepository interface {
	Create(ctx context.Context, record *entity.AuditRecord) error
	List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ AuditRepository = &AuditPostgres{}

// AuditPostgres implements AuditRepository using PostgreSQL
type AuditPostgres struct {
	db *pgxpool.Pool
}

func NewAuditPostgres(db *pgxpool.Pool) *AuditPostgres {
	return &AuditPostgres{db: db}
}

const auditColumns = `id, session_id, query, kind, complexity, budget_total,
	chunks_selected, chunks_dropped, tokens_used, confidence, confidence_level,
	issue_types, fallback_strategy, is_error, latency_ms, created_at`

func (r *AuditPostgres) Create(ctx context.Context, record *entity.AuditRecord) error {
	recordID, err := uuid.Parse(record.ID)
	if err != nil {
		return fmt.Errorf("invalid audit record ID: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_records (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			coalesce($12, '{}'), $13, $14, $15, $16)`,
		pgtype.UUID{Bytes: recordID, Valid: true},
		textOrNull(record.SessionID),
		record.Query,
		string(record.Kind),
		textOrNull(string(record.Complexity)),
		record.BudgetTotal,
		record.ChunksSelected,
		record.ChunksDropped,
		record.TokensUsed,
		record.Confidence,
		string(record.ConfidenceLevel),
		record.IssueTypes,
		textOrNull(record.FallbackStrategy),
		record.IsError,
		record.LatencyMs,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit record: %w", err)
	}

	return nil
}

func (r *AuditPostgres) List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditRecord, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.SessionID != "" {
		add("session_id = $%d", filter.SessionID)
	}
	if filter.Kind != "" {
		add("kind = $%d", string(filter.Kind))
	}
	if filter.Complexity != "" {
		add("complexity = $%d", string(filter.Complexity))
	}
	if filter.OnlyErrors {
		conds = append(conds, "is_error")
	}
	if !filter.Since.IsZero() {
		add("created_at >= $%d", filter.Since)
	}
	if !filter.Until.IsZero() {
		add("created_at <= $%d", filter.Until)
	}

	query := "SELECT " + auditColumns + " FROM audit_records"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []entity.AuditRecord
	for rows.Next() {
		record, err := scanAuditRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}

	return records, nil
}

func (r *AuditPostgres) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM audit_records WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete audit records: %w", err)
	}

	return tag.RowsAffected(), nil
}
