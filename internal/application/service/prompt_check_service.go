// Package service implements the application services behind the inbound ports.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptcheck/internal/application/common/logging"
	"promptcheck/internal/application/dto"
	"promptcheck/internal/domain/bracket"
	"promptcheck/internal/domain/errors/domain"
	"promptcheck/internal/domain/valueobject"
	"promptcheck/internal/port/inbound"
)

// PromptCheckConfig configures PromptCheckService.
type PromptCheckConfig struct {
	Policy valueobject.EscapePolicy
	// MaxTextLength limits prompt size in bytes. Zero disables the limit.
	MaxTextLength int
	RequireField  bool
}

// PromptCheckService runs the bracket scanner for inbound adapters.
type PromptCheckService struct {
	config   PromptCheckConfig
	scanners map[valueobject.EscapePolicy]*bracket.Scanner
	metrics  *CheckMetrics
	logger   logging.ApplicationLogger
	now      func() time.Time
}

var _ inbound.PromptCheckService = (*PromptCheckService)(nil)

// NewPromptCheckService creates a PromptCheckService. metrics may be nil.
func NewPromptCheckService(
	config PromptCheckConfig,
	metrics *CheckMetrics,
	logger logging.ApplicationLogger,
) *PromptCheckService {
	if config.Policy == "" {
		config.Policy = valueobject.DefaultEscapePolicy
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &PromptCheckService{
		config: config,
		scanners: map[valueobject.EscapePolicy]*bracket.Scanner{
			valueobject.EscapeAware: bracket.NewScanner(bracket.WithEscapePolicy(valueobject.EscapeAware)),
			valueobject.EscapeSkip:  bracket.NewScanner(bracket.WithEscapePolicy(valueobject.EscapeSkip)),
		},
		metrics: metrics,
		logger:  logger.WithComponent("prompt-check-service"),
		now:     time.Now,
	}
}

// CheckPrompt validates the request and scans its text.
func (s *PromptCheckService) CheckPrompt(
	ctx context.Context,
	req dto.CheckPromptRequest,
) (*dto.CheckPromptResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	policy := s.config.Policy
	if req.EscapePolicy != "" {
		parsed, err := valueobject.NewEscapePolicy(req.EscapePolicy)
		if err != nil {
			return nil, err
		}
		policy = parsed
	}

	start := time.Now()
	report := s.scanners[policy].Scan(req.Text)
	duration := time.Since(start)

	s.metrics.RecordScan(ctx, policy.String(), report, duration)

	response := NewCheckResponse(req.FieldID, policy, report, s.now())

	s.logger.Debug(ctx, "Prompt checked", logging.Fields{
		"field_id":      req.FieldID,
		"text_length":   len(req.Text),
		"escape_policy": policy.String(),
		"issue_count":   len(report.Issues),
		"duration":      duration.String(),
	})

	return response, nil
}

func (s *PromptCheckService) validate(req dto.CheckPromptRequest) error {
	if s.config.RequireField && strings.TrimSpace(req.FieldID) == "" {
		return domain.ErrFieldRequired
	}
	if s.config.MaxTextLength > 0 && len(req.Text) > s.config.MaxTextLength {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrTextTooLong, len(req.Text), s.config.MaxTextLength)
	}
	return nil
}

// NewCheckResponse converts a scan report into its transport shape.
func NewCheckResponse(
	fieldID string,
	policy valueobject.EscapePolicy,
	report bracket.Report,
	checkedAt time.Time,
) *dto.CheckPromptResponse {
	issues := make([]dto.CheckIssue, 0, len(report.Issues))
	for _, issue := range report.Issues {
		issues = append(issues, dto.CheckIssue{
			BracketKind: issue.Pair.Kind().String(),
			Label:       issue.Label(),
			Escaped:     issue.Escaped,
			Type:        string(issue.Type),
			Count:       issue.Count,
			Message:     issue.Message(),
		})
	}

	return &dto.CheckPromptResponse{
		FieldID:      fieldID,
		EscapePolicy: policy.String(),
		HasErrors:    report.HasErrors(),
		Messages:     report.Messages(),
		Tooltip:      report.Tooltip(),
		Issues:       issues,
		CheckedAt:    checkedAt.UTC(),
	}
}
