package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodeInvalidSessionID = "invalid_session_id"
	ErrCodeInvalidPayload   = "invalid_payload"

	// Resource errors
	ErrCodeNotFound        = "not_found"
	ErrCodeGameNotFound    = "game_not_found"
	ErrCodeSessionNotFound = "session_not_found"
	ErrCodeConflict        = "conflict"

	// Gameplay errors
	ErrCodeInvalidState            = "invalid_state"
	ErrCodeOutOfRange              = "question_out_of_range"
	ErrCodeAlreadyAnswered         = "already_answered"
	ErrCodeAlreadyRevealed         = "hint_already_revealed"
	ErrCodeQuestionAlreadyAnswered = "question_already_answered"
	ErrCodeAttemptLimitExceeded    = "attempt_limit_exceeded"
	ErrCodeSessionBusy             = "session_busy"

	// WebSocket errors
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
