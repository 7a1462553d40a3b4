// Package sink writes check results to an io.Writer.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/port/outbound"

	"gopkg.in/yaml.v3"
)

// Format selects how results are encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, FormatText:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", raw)
	}
}

// WriterSink encodes each result onto a writer. JSON results are written one
// per line, YAML results as separate documents, and text results as the
// tooltip followed by a blank line.
type WriterSink struct {
	w      io.Writer
	format Format
	mu     sync.Mutex
}

var _ outbound.CheckResultSink = (*WriterSink)(nil)

// NewWriterSink creates a WriterSink.
func NewWriterSink(w io.Writer, format Format) (*WriterSink, error) {
	if w == nil {
		return nil, errors.New("writer cannot be nil")
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatJSON
	}
	return &WriterSink{w: w, format: format}, nil
}

// Publish writes result in the sink's format.
func (s *WriterSink) Publish(ctx context.Context, result *dto.CheckPromptResponse) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return Write(s.w, s.format, result)
}

// Write encodes a single result onto w.
func Write(w io.Writer, format Format, result *dto.CheckPromptResponse) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		return writeText(w, result)
	default:
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

func writeText(w io.Writer, result *dto.CheckPromptResponse) error {
	prefix := ""
	if result.FieldID != "" {
		prefix = result.FieldID + ": "
	}
	if !result.HasErrors {
		_, err := fmt.Fprintf(w, "%sok\n", prefix)
		return err
	}
	if prefix != "" {
		if _, err := fmt.Fprintln(w, result.FieldID+":"); err != nil {
			return err
		}
	}
	for _, msg := range result.Messages {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}
