package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var usecaseMeter = otel.Meter("eleven-fantasy/internal/usecase")

type syncMetrics struct {
	runs           metric.Int64Counter
	matchesWritten metric.Int64Counter
	failures       metric.Int64Counter
	duration       metric.Float64Histogram
}

// newSyncMetrics falls back to no-op instruments if registration fails.
func newSyncMetrics() syncMetrics {
	var m syncMetrics
	var err error

	if m.runs, err = usecaseMeter.Int64Counter("match_sync.runs",
		metric.WithDescription("Completed sync passes by job")); err != nil {
		m.runs = noop.Int64Counter{}
	}
	if m.matchesWritten, err = usecaseMeter.Int64Counter("match_sync.matches_written",
		metric.WithDescription("Matches upserted or updated by job")); err != nil {
		m.matchesWritten = noop.Int64Counter{}
	}
	if m.failures, err = usecaseMeter.Int64Counter("match_sync.failures",
		metric.WithDescription("Skipped units of work (dates, events, matchweeks) by job")); err != nil {
		m.failures = noop.Int64Counter{}
	}
	if m.duration, err = usecaseMeter.Float64Histogram("match_sync.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Sync pass duration by job")); err != nil {
		m.duration = noop.Float64Histogram{}
	}
	return m
}

func (m syncMetrics) record(ctx context.Context, job string, written, failed int, seconds float64) {
	attrs := metric.WithAttributes(attribute.String("job", job))
	m.runs.Add(ctx, 1, attrs)
	m.matchesWritten.Add(ctx, int64(written), attrs)
	m.failures.Add(ctx, int64(failed), attrs)
	m.duration.Record(ctx, seconds, attrs)
}
