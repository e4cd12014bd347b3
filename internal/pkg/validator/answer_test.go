package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdesk/answer-backend/internal/config"
	"github.com/ragdesk/answer-backend/internal/entity"
)

func newTestValidator() *Validator {
	return NewValidator(config.PipelineConfig{MaxQueryLength: 4000})
}

func floatPtr(v float64) *float64 { return &v }

func TestValidator_ValidateAnswer(t *testing.T) {
	v := newTestValidator()

	t.Run("Should accept a plain question", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{Query: "how do refunds work?"})
		require.NoError(t, err)
	})

	t.Run("Should reject empty query", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{Query: ""})
		assert.ErrorIs(t, err, entity.ErrEmptyQuery)
	})

	t.Run("Should reject whitespace-only query", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{Query: "   \t  "})
		assert.ErrorIs(t, err, entity.ErrEmptyQuery)
	})

	t.Run("Should reject query over the length limit", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{Query: strings.Repeat("x", 4001)})
		assert.ErrorIs(t, err, entity.ErrQueryTooLong)
	})

	t.Run("Should reject oversized session id", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{
			Query:     "hello",
			SessionID: strings.Repeat("s", 129),
		})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("Should reject temperature out of range", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{
			Query:   "hello",
			Options: entity.AnswerOptions{Temperature: floatPtr(2.5)},
		})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("Should reject expected confidence out of range", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{
			Query:   "hello",
			Options: entity.AnswerOptions{ExpectedConfidence: floatPtr(1.2)},
		})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("Should reject negative max results", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{
			Query:   "hello",
			Options: entity.AnswerOptions{MaxResults: -1},
		})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("Should accept boundary option values", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{
			Query: "hello",
			Options: entity.AnswerOptions{
				Temperature:        floatPtr(0),
				ExpectedConfidence: floatPtr(1),
				MaxResults:         50,
			},
		})
		require.NoError(t, err)
	})

	t.Run("Should tolerate unknown tier and domain", func(t *testing.T) {
		err := v.ValidateAnswer(&entity.AnswerRequest{
			Query:   "hello",
			Options: entity.AnswerOptions{Domain: "mystery", UserTier: "gold"},
		})
		require.NoError(t, err)
	})
}

func TestValidator_ValidateAuditFilter(t *testing.T) {
	v := newTestValidator()

	t.Run("Should accept empty filter", func(t *testing.T) {
		require.NoError(t, v.ValidateAuditFilter(&entity.AuditFilter{}))
	})

	t.Run("Should reject limit over page cap", func(t *testing.T) {
		err := v.ValidateAuditFilter(&entity.AuditFilter{Limit: 501})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("Should reject unknown kind", func(t *testing.T) {
		err := v.ValidateAuditFilter(&entity.AuditFilter{Kind: "ROBOT"})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("Should reject inverted time window", func(t *testing.T) {
		now := time.Now()
		err := v.ValidateAuditFilter(&entity.AuditFilter{
			Since: now,
			Until: now.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})
}

func TestValidator_ValidateReportFormat(t *testing.T) {
	v := newTestValidator()

	t.Run("Should accept known formats", func(t *testing.T) {
		require.NoError(t, v.ValidateReportFormat(entity.FormatMarkdown))
		require.NoError(t, v.ValidateReportFormat(entity.FormatPDF))
		require.NoError(t, v.ValidateReportFormat(entity.FormatXLSX))
	})

	t.Run("Should reject unknown format", func(t *testing.T) {
		err := v.ValidateReportFormat(entity.ReportFormat("docx"))
		assert.ErrorIs(t, err, entity.ErrInvalidFormat)
	})
}
