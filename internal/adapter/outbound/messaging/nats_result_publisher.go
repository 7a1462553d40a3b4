package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/port/outbound"
)

// Publisher is the subset of *nats.Conn used to publish results.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ResultPublisher publishes check results to "<prefix>.<field_id>".
type ResultPublisher struct {
	publisher Publisher
	prefix    string
}

var _ outbound.CheckResultSink = (*ResultPublisher)(nil)

// NewResultPublisher creates a ResultPublisher for the subject prefix.
func NewResultPublisher(publisher Publisher, prefix string) (*ResultPublisher, error) {
	if publisher == nil {
		return nil, errors.New("publisher cannot be nil")
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if strings.TrimSpace(prefix) == "" {
		return nil, errors.New("result subject prefix cannot be empty")
	}
	return &ResultPublisher{publisher: publisher, prefix: prefix}, nil
}

// Subject returns the subject a result for fieldID is published on.
func (p *ResultPublisher) Subject(fieldID string) string {
	return p.prefix + "." + sanitizeToken(fieldID)
}

// Publish encodes result as JSON and publishes it.
func (p *ResultPublisher) Publish(ctx context.Context, result *dto.CheckPromptResponse) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode check result: %w", err)
	}

	subject := p.Subject(result.FieldID)
	if err := p.publisher.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// sanitizeToken makes fieldID safe as a single subject token.
func sanitizeToken(fieldID string) string {
	if fieldID == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		default:
			return r
		}
	}, fieldID)
}
