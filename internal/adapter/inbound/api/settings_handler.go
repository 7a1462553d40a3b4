package api

import (
	"net/http"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/port/inbound"
)

// SettingsHandler handles settings search requests.
type SettingsHandler struct {
	settingsService inbound.SettingsSearchService
	errorHandler    ErrorHandler
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService inbound.SettingsSearchService, errorHandler ErrorHandler) *SettingsHandler {
	if settingsService == nil {
		panic("settingsService cannot be nil")
	}
	if errorHandler == nil {
		panic("errorHandler cannot be nil")
	}

	return &SettingsHandler{
		settingsService: settingsService,
		errorHandler:    errorHandler,
	}
}

// Search handles POST /settings/search.
func (h *SettingsHandler) Search(w http.ResponseWriter, r *http.Request) {
	var request dto.SettingsSearchRequest
	if err := decodeJSON(w, r, &request); err != nil {
		h.errorHandler.HandleValidationError(w, r, err)
		return
	}

	response, err := h.settingsService.Search(r.Context(), request)
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, response, h.errorHandler)
}
