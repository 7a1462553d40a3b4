package service

import (
	"context"
	"time"

	"promptcheck/internal/domain/bracket"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names following OpenTelemetry semantic conventions.
const (
	ScanCounterName           = "promptcheck_scans_total"
	ImbalanceCounterName      = "promptcheck_imbalances_total"
	ScanDurationHistogramName = "promptcheck_scan_duration_seconds"
	meterName                 = "promptcheck/service"
)

// Common attribute keys for consistent labeling.
const (
	AttrEscapePolicy = "escape_policy"
	AttrHasErrors    = "has_errors"
	AttrBracketKind  = "bracket_kind"
	AttrEscaped      = "escaped"
	AttrIssueType    = "issue_type"
)

// CheckMetrics records OpenTelemetry metrics for bracket checks.
type CheckMetrics struct {
	scans        metric.Int64Counter
	imbalances   metric.Int64Counter
	scanDuration metric.Float64Histogram
}

// NewCheckMetrics creates the check instruments on provider. A nil provider
// uses the global one.
func NewCheckMetrics(provider metric.MeterProvider) (*CheckMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	scans, err := meter.Int64Counter(
		ScanCounterName,
		metric.WithDescription("Total number of prompt bracket scans"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	imbalances, err := meter.Int64Counter(
		ImbalanceCounterName,
		metric.WithDescription("Total number of bracket imbalances reported"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	// Scans are linear in prompt length; buckets span 10µs to 50ms.
	scanDuration, err := meter.Float64Histogram(
		ScanDurationHistogramName,
		metric.WithDescription("Duration of prompt bracket scans in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05),
	)
	if err != nil {
		return nil, err
	}

	return &CheckMetrics{
		scans:        scans,
		imbalances:   imbalances,
		scanDuration: scanDuration,
	}, nil
}

// RecordScan records one completed scan and each issue it found.
func (m *CheckMetrics) RecordScan(ctx context.Context, policy string, report bracket.Report, duration time.Duration) {
	if m == nil {
		return
	}

	scanAttrs := metric.WithAttributes(
		attribute.String(AttrEscapePolicy, policy),
		attribute.Bool(AttrHasErrors, report.HasErrors()),
	)
	m.scans.Add(ctx, 1, scanAttrs)
	m.scanDuration.Record(ctx, duration.Seconds(), scanAttrs)

	for _, issue := range report.Issues {
		m.imbalances.Add(ctx, 1, metric.WithAttributes(
			attribute.String(AttrBracketKind, issue.Pair.Kind().String()),
			attribute.Bool(AttrEscaped, issue.Escaped),
			attribute.String(AttrIssueType, string(issue.Type)),
		))
	}
}
