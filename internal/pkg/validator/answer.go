package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ragdesk/answer-backend/internal/config"
	"github.com/ragdesk/answer-backend/internal/entity"
)

const maxSessionIDLength = 128

// Validator validates incoming API requests
type Validator struct {
	cfg config.PipelineConfig
}

func NewValidator(cfg config.PipelineConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAnswer validates AnswerRequest
func (v *Validator) ValidateAnswer(req *entity.AnswerRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrEmptyQuery)
	}

	if utf8.RuneCountInString(req.Query) > v.cfg.MaxQueryLength {
		return fmt.Errorf("%w: query is %d characters (max %d)",
			entity.ErrQueryTooLong, utf8.RuneCountInString(req.Query), v.cfg.MaxQueryLength)
	}

	if len(req.SessionID) > maxSessionIDLength {
		return fmt.Errorf("%w: session_id is %d characters (max %d)",
			entity.ErrInvalidParameter, len(req.SessionID), maxSessionIDLength)
	}

	return v.validateOptions(&req.Options)
}

func (v *Validator) validateOptions(opts *entity.AnswerOptions) error {
	if opts.Temperature != nil && (*opts.Temperature < 0 || *opts.Temperature > 2) {
		return fmt.Errorf("%w: temperature must be between 0 and 2, got %v",
			entity.ErrInvalidParameter, *opts.Temperature)
	}

	if opts.ExpectedConfidence != nil && (*opts.ExpectedConfidence < 0 || *opts.ExpectedConfidence > 1) {
		return fmt.Errorf("%w: expected_confidence must be between 0 and 1, got %v",
			entity.ErrInvalidParameter, *opts.ExpectedConfidence)
	}

	if opts.MaxResults < 0 || opts.MaxResults > 50 {
		return fmt.Errorf("%w: max_results must be between 0 and 50, got %d",
			entity.ErrInvalidParameter, opts.MaxResults)
	}

	return nil
}
