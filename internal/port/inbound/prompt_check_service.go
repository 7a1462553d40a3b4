// Package inbound declares the services exposed to driving adapters.
package inbound

import (
	"context"

	"promptcheck/internal/application/dto"
)

// PromptCheckService checks prompt text for bracket imbalances.
type PromptCheckService interface {
	CheckPrompt(ctx context.Context, req dto.CheckPromptRequest) (*dto.CheckPromptResponse, error)
}

// SettingsSearchService filters the settings panel.
type SettingsSearchService interface {
	Search(ctx context.Context, req dto.SettingsSearchRequest) (*dto.SettingsSearchResponse, error)
}

// HealthService reports service health.
type HealthService interface {
	GetHealth(ctx context.Context) (*dto.HealthResponse, error)
}

// EditProcessor accepts edit notifications from a transport.
type EditProcessor interface {
	ProcessEdit(ctx context.Context, event dto.EditEvent) error
}
