package api

import (
	"net/http"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/port/inbound"
)

// CheckHandler handles bracket check requests.
type CheckHandler struct {
	checkService inbound.PromptCheckService
	errorHandler ErrorHandler
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(checkService inbound.PromptCheckService, errorHandler ErrorHandler) *CheckHandler {
	if checkService == nil {
		panic("checkService cannot be nil")
	}
	if errorHandler == nil {
		panic("errorHandler cannot be nil")
	}

	return &CheckHandler{
		checkService: checkService,
		errorHandler: errorHandler,
	}
}

// CheckPrompt handles POST /check.
func (h *CheckHandler) CheckPrompt(w http.ResponseWriter, r *http.Request) {
	var request dto.CheckPromptRequest
	if err := decodeJSON(w, r, &request); err != nil {
		h.errorHandler.HandleValidationError(w, r, err)
		return
	}

	response, err := h.checkService.CheckPrompt(r.Context(), request)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, response, h.errorHandler)
}
