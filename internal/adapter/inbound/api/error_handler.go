package api

import (
	"errors"
	"net/http"

	"promptcheck/internal/application/common/slogger"
	"promptcheck/internal/application/dto"
	"promptcheck/internal/domain/errors/domain"
)

// ErrorHandler defines methods for handling HTTP errors.
type ErrorHandler interface {
	HandleValidationError(w http.ResponseWriter, r *http.Request, err error)
	HandleServiceError(w http.ResponseWriter, r *http.Request, err error)
}

// ErrorHandlingConfig defines how one domain error is rendered.
type ErrorHandlingConfig struct {
	LogMessage      string
	ErrorType       string
	HTTPStatus      int
	ErrorCode       dto.ErrorCode
	ResponseMessage string
	UseDetailedMsg  bool
}

type errorMapping struct {
	err    error
	config ErrorHandlingConfig
}

// DefaultErrorHandler implements ErrorHandler with standard HTTP error responses.
type DefaultErrorHandler struct {
	// Ordered: ErrTextTooLong must win over ErrInvalidInput when both match.
	mappings []errorMapping
}

// NewDefaultErrorHandler creates a new DefaultErrorHandler with predefined error configurations.
func NewDefaultErrorHandler() ErrorHandler {
	return &DefaultErrorHandler{
		mappings: []errorMapping{
			{
				err: domain.ErrTextTooLong,
				config: ErrorHandlingConfig{
					LogMessage:     "Prompt text too long",
					ErrorType:      "text_too_long",
					HTTPStatus:     http.StatusRequestEntityTooLarge,
					ErrorCode:      dto.ErrorCodeTextTooLong,
					UseDetailedMsg: true,
				},
			},
			{
				err: domain.ErrInvalidEscapePolicy,
				config: ErrorHandlingConfig{
					LogMessage:     "Invalid escape policy",
					ErrorType:      "invalid_escape_policy",
					HTTPStatus:     http.StatusBadRequest,
					ErrorCode:      dto.ErrorCodeInvalidPolicy,
					UseDetailedMsg: true,
				},
			},
			{
				err: domain.ErrFieldRequired,
				config: ErrorHandlingConfig{
					LogMessage:      "Field id missing",
					ErrorType:       "validation",
					HTTPStatus:      http.StatusBadRequest,
					ErrorCode:       dto.ErrorCodeInvalidRequest,
					ResponseMessage: "field_id is required",
				},
			},
			{
				err: domain.ErrInvalidInput,
				config: ErrorHandlingConfig{
					LogMessage:     "Invalid request",
					ErrorType:      "validation",
					HTTPStatus:     http.StatusBadRequest,
					ErrorCode:      dto.ErrorCodeInvalidRequest,
					UseDetailedMsg: true,
				},
			},
		},
	}
}

func (h *DefaultErrorHandler) logError(r *http.Request, message, errorType string, err error) {
	slogger.Error(r.Context(), message, slogger.Fields{
		"error": err.Error(),
		"path":  r.URL.Path,
		"type":  errorType,
	})
}

func (h *DefaultErrorHandler) handleErrorWithConfig(w http.ResponseWriter, r *http.Request, err error, config ErrorHandlingConfig) {
	h.logError(r, config.LogMessage, config.ErrorType, err)

	message := config.ResponseMessage
	if config.UseDetailedMsg {
		message = err.Error()
	}

	h.writeErrorResponse(w, r, config.HTTPStatus, dto.NewErrorResponse(config.ErrorCode, message, nil))
}

// HandleValidationError handles request validation errors. Known domain
// errors keep their own status, anything else becomes 400 Bad Request.
func (h *DefaultErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	if config, ok := h.lookup(err); ok {
		h.handleErrorWithConfig(w, r, err, config)
		return
	}

	h.logError(r, "Validation error occurred", "validation", err)

	var validationErr dto.ValidationError
	if errors.As(err, &validationErr) {
		response := dto.NewErrorResponse(dto.ErrorCodeInvalidRequest, "Validation failed", []dto.ValidationError{validationErr})
		h.writeErrorResponse(w, r, http.StatusBadRequest, response)
		return
	}

	h.writeErrorResponse(w, r, http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidRequest, err.Error(), nil))
}

// HandleServiceError maps service errors to HTTP status codes.
func (h *DefaultErrorHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if config, ok := h.lookup(err); ok {
		h.handleErrorWithConfig(w, r, err, config)
		return
	}

	h.handleErrorWithConfig(w, r, err, ErrorHandlingConfig{
		LogMessage:      "Internal server error",
		ErrorType:       "internal",
		HTTPStatus:      http.StatusInternalServerError,
		ErrorCode:       dto.ErrorCodeInternalError,
		ResponseMessage: "An internal error occurred",
	})
}

func (h *DefaultErrorHandler) lookup(err error) (ErrorHandlingConfig, bool) {
	for _, m := range h.mappings {
		if errors.Is(err, m.err) {
			return m.config, true
		}
	}
	return ErrorHandlingConfig{}, false
}

// writeErrorResponse writes an error response as JSON with correlation ID preservation.
func (h *DefaultErrorHandler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, response dto.ErrorResponse) {
	if correlationID := r.Header.Get(CorrelationIDHeader); correlationID != "" {
		w.Header().Set(CorrelationIDHeader, correlationID)
	}

	if err := WriteJSON(w, statusCode, response); err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}
}
