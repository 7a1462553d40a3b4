package dto

import "time"

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp,omitempty"`
}

// ErrorCode represents standard error codes.
type ErrorCode string

const (
	// ErrorCodeInvalidRequest indicates that the request contains invalid parameters or data.
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrorCodeTextTooLong indicates that the prompt exceeds the configured length limit.
	ErrorCodeTextTooLong ErrorCode = "TEXT_TOO_LONG"
	// ErrorCodeInvalidPolicy indicates an unknown escape policy.
	ErrorCodeInvalidPolicy ErrorCode = "INVALID_ESCAPE_POLICY"
	// ErrorCodeInternalError indicates an unexpected internal server error occurred.
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// NewErrorResponse creates a new error response.
func NewErrorResponse(code ErrorCode, message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Error:     string(code),
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// ValidationError represents a validation error with field details.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
