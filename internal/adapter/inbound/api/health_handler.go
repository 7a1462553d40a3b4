package api

import (
	"fmt"
	"net/http"
	"time"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/port/inbound"
)

const (
	// Unit conversion constants.
	nanosecondsToMilliseconds = 1e6
)

// HealthHandler handles HTTP requests for health check operations.
type HealthHandler struct {
	healthService inbound.HealthService
	errorHandler  ErrorHandler
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthService inbound.HealthService, errorHandler ErrorHandler) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
		errorHandler:  errorHandler,
	}
}

// GetHealth handles GET /health.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	response, err := h.healthService.GetHealth(r.Context())
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	w.Header().
		Set("X-Health-Check-Duration", fmt.Sprintf("%.2fms", float64(time.Since(start).Nanoseconds())/nanosecondsToMilliseconds))

	// Return 503 if status is unhealthy, 200 otherwise
	statusCode := http.StatusOK
	if response.Status == string(dto.HealthStatusUnhealthy) {
		statusCode = http.StatusServiceUnavailable
	}

	writeResponse(w, r, statusCode, response, h.errorHandler)
}
