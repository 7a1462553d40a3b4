package service

import (
	"context"
	"time"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/port/inbound"
	"promptcheck/internal/port/outbound"
)

// HealthServiceImpl reports process health and the state of optional
// outbound connections.
type HealthServiceImpl struct {
	version    string
	reporters  []outbound.ConnectionReporter
	timeSource func() time.Time
}

var _ inbound.HealthService = (*HealthServiceImpl)(nil)

// NewHealthService creates a health service.
func NewHealthService(version string, reporters ...outbound.ConnectionReporter) *HealthServiceImpl {
	return &HealthServiceImpl{
		version:    version,
		reporters:  reporters,
		timeSource: time.Now,
	}
}

// GetHealth returns healthy unless a reported connection is down, in which
// case the status is degraded. The scanner itself has no dependencies.
func (h *HealthServiceImpl) GetHealth(_ context.Context) (*dto.HealthResponse, error) {
	response := &dto.HealthResponse{
		Status:    string(dto.HealthStatusHealthy),
		Timestamp: h.timeSource().UTC(),
		Version:   h.version,
	}

	if len(h.reporters) == 0 {
		return response, nil
	}

	response.Dependencies = make(map[string]dto.DependencyStatus, len(h.reporters))
	for _, reporter := range h.reporters {
		status := dto.DependencyStatus{Status: string(dto.DependencyStatusHealthy)}
		if !reporter.IsConnected() {
			status.Status = string(dto.DependencyStatusUnhealthy)
			status.Message = "not connected"
			response.Status = string(dto.HealthStatusDegraded)
		}
		response.Dependencies[reporter.Name()] = status
	}

	return response, nil
}
