package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Authentication errors
	ErrCodeInvalidToken = "invalid_token"

	// Resource errors
	ErrCodeNotFound         = "not_found"
	ErrCodeLevelNotFound    = "level_not_found"
	ErrCodeQuestionNotFound = "question_not_found"

	// Gameplay errors
	ErrCodeAlreadyAnswered = "already_answered"
	ErrCodeKindMismatch    = "answer_kind_mismatch"
	ErrCodeLevelIncomplete = "level_incomplete"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
