// Package outbound declares the interfaces the application drives.
package outbound

import (
	"context"

	"promptcheck/internal/application/dto"
)

// CheckResultSink renders a check result: it receives the tooltip text and
// the error flag for a field.
type CheckResultSink interface {
	Publish(ctx context.Context, result *dto.CheckPromptResponse) error
}

// ConnectionReporter exposes the state of an outbound connection for health
// reporting.
type ConnectionReporter interface {
	Name() string
	IsConnected() bool
}
