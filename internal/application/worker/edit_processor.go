// Package worker turns edit notifications into debounced bracket checks.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"promptcheck/internal/application/common/logging"
	"promptcheck/internal/application/debounce"
	"promptcheck/internal/application/dto"
	"promptcheck/internal/domain/errors/domain"
	"promptcheck/internal/port/inbound"
	"promptcheck/internal/port/outbound"
)

// EditProcessorConfig holds configuration for the edit processor.
type EditProcessorConfig struct {
	DebounceDelay time.Duration
}

// EditProcessorStats counts processed edits.
type EditProcessorStats struct {
	EditsReceived  int64 `json:"edits_received"`
	ChecksRun      int64 `json:"checks_run"`
	CheckFailures  int64 `json:"check_failures"`
	Published      int64 `json:"published"`
	PublishFailure int64 `json:"publish_failures"`
}

// editOrigin identifies the edit whose text is pending for a field.
type editOrigin struct {
	eventID       string
	correlationID string
}

// EditProcessor debounces edits per field, checks the settled text and
// hands the result to a sink.
type EditProcessor struct {
	config   EditProcessorConfig
	notifier *debounce.Notifier
	checker  inbound.PromptCheckService
	sink     outbound.CheckResultSink
	logger   logging.ApplicationLogger

	// mu keeps latest in step with the text handed to the notifier.
	mu     sync.Mutex
	latest map[string]editOrigin

	received  atomic.Int64
	checks    atomic.Int64
	failures  atomic.Int64
	published atomic.Int64
	sinkFails atomic.Int64
}

var _ inbound.EditProcessor = (*EditProcessor)(nil)

// NewEditProcessor creates an EditProcessor. The caller owns notifier and
// closes it on shutdown.
func NewEditProcessor(
	config EditProcessorConfig,
	notifier *debounce.Notifier,
	checker inbound.PromptCheckService,
	sink outbound.CheckResultSink,
	logger logging.ApplicationLogger,
) (*EditProcessor, error) {
	if notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if checker == nil {
		return nil, errors.New("prompt check service cannot be nil")
	}
	if sink == nil {
		return nil, errors.New("result sink cannot be nil")
	}
	if config.DebounceDelay < 0 {
		return nil, errors.New("debounce delay cannot be negative")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &EditProcessor{
		config:   config,
		notifier: notifier,
		checker:  checker,
		sink:     sink,
		logger:   logger.WithComponent("edit-processor"),
		latest:   make(map[string]editOrigin),
	}, nil
}

// ProcessEdit schedules a check of the event's text once the field has been
// idle for the debounce delay.
func (p *EditProcessor) ProcessEdit(ctx context.Context, event dto.EditEvent) error {
	fieldID := strings.TrimSpace(event.FieldID)
	if fieldID == "" {
		return domain.ErrFieldRequired
	}
	p.received.Add(1)

	if !p.notifier.Registered(fieldID) {
		if err := p.notifier.Register(fieldID, p.config.DebounceDelay, p.checkFunc(fieldID)); err != nil {
			return fmt.Errorf("register field %s: %w", fieldID, err)
		}
		p.logger.Info(ctx, "Registered field for bracket checking", logging.Fields{
			"field_id":       fieldID,
			"debounce_delay": p.config.DebounceDelay.String(),
		})
	}

	origin := editOrigin{eventID: event.EventID, correlationID: logging.GetCorrelationID(ctx)}
	if origin.correlationID == "" {
		origin.correlationID = event.EventID
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.notifier.Notify(fieldID, event.Text); err != nil {
		return fmt.Errorf("notify field %s: %w", fieldID, err)
	}
	p.latest[fieldID] = origin
	return nil
}

func (p *EditProcessor) checkFunc(fieldID string) debounce.EditFunc {
	return func(ctx context.Context, text string) {
		p.mu.Lock()
		origin := p.latest[fieldID]
		p.mu.Unlock()
		if origin.correlationID != "" {
			ctx = logging.WithCorrelationID(ctx, origin.correlationID)
		}

		p.checks.Add(1)

		result, err := p.checker.CheckPrompt(ctx, dto.CheckPromptRequest{FieldID: fieldID, Text: text})
		if err != nil {
			p.failures.Add(1)
			p.logger.ErrorWithError(ctx, err, "Bracket check failed", logging.Fields{
				"field_id": fieldID,
				"event_id": origin.eventID,
			})
			return
		}
		result.EventID = origin.eventID

		if err := p.sink.Publish(ctx, result); err != nil {
			p.sinkFails.Add(1)
			p.logger.ErrorWithError(ctx, err, "Failed to publish check result", logging.Fields{"field_id": fieldID})
			return
		}
		p.published.Add(1)
	}
}

// Flush runs any pending check for fieldID immediately.
func (p *EditProcessor) Flush(fieldID string) {
	p.notifier.Flush(fieldID)
}

// Stats returns a snapshot of the processor counters.
func (p *EditProcessor) Stats() EditProcessorStats {
	return EditProcessorStats{
		EditsReceived:  p.received.Load(),
		ChecksRun:      p.checks.Load(),
		CheckFailures:  p.failures.Load(),
		Published:      p.published.Load(),
		PublishFailure: p.sinkFails.Load(),
	}
}
