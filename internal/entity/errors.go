package entity

import "errors"

// Domain errors
var (
	// Query errors
	ErrEmptyQuery   = errors.New("query is empty")
	ErrQueryTooLong = errors.New("query exceeds maximum length")

	// Pipeline errors
	ErrRetrievalFailed  = errors.New("retrieval request failed")
	ErrGenerationFailed = errors.New("generation request failed")
	ErrBudgetExhausted  = errors.New("token budget exhausted")

	// Audit errors
	ErrAuditNotFound = errors.New("audit record not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
