package contract

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrRetrievalUnavailable   = errors.New("retrieval backend unavailable")
	ErrInsufficientCandidates = errors.New("not enough candidates to compare")
	ErrModelInvoke            = errors.New("model invoke failed")
	ErrSchemaViolation        = errors.New("model response violates schema")
	ErrValidation             = errors.New("validation failed")
	ErrStepBudgetExhausted    = errors.New("step budget exhausted")
)
