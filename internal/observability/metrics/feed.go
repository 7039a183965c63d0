package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	feedMeterName = "feed.service"
)

type FeedMetrics struct {
	buildDuration   metric.Float64Histogram
	recordsEmitted  metric.Int64Counter
	policiesSkipped metric.Int64Counter
	remindersSent   metric.Int64Counter
}

func NewFeedMetrics() (*FeedMetrics, error) {
	meter := otel.Meter(feedMeterName)

	buildDuration, err := meter.Float64Histogram(
		"feed_build_duration_seconds",
		metric.WithDescription("Time spent building an alert or reminder feed"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	recordsEmitted, err := meter.Int64Counter(
		"feed_records_total",
		metric.WithDescription("Feed records returned to agents"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	policiesSkipped, err := meter.Int64Counter(
		"feed_policies_skipped_total",
		metric.WithDescription("Policies that produced no auto record"),
		metric.WithUnit("{policy}"),
	)
	if err != nil {
		return nil, err
	}

	remindersSent, err := meter.Int64Counter(
		"reminders_dispatched_total",
		metric.WithDescription("Reminder emails handed to the task queue"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	return &FeedMetrics{
		buildDuration:   buildDuration,
		recordsEmitted:  recordsEmitted,
		policiesSkipped: policiesSkipped,
		remindersSent:   remindersSent,
	}, nil
}

func (m *FeedMetrics) RecordBuildDuration(ctx context.Context, kind string, duration time.Duration) {
	m.buildDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("feed", kind),
	))
}

func (m *FeedMetrics) RecordRecords(ctx context.Context, kind, source, priority string, count int) {
	if count == 0 {
		return
	}
	m.recordsEmitted.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("feed", kind),
		attribute.String("source", source),
		attribute.String("priority", priority),
	))
}

func (m *FeedMetrics) RecordSkipped(ctx context.Context, kind, reason string, count int) {
	if count == 0 {
		return
	}
	m.policiesSkipped.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("feed", kind),
		attribute.String("reason", reason),
	))
}

func (m *FeedMetrics) RecordReminderDispatched(ctx context.Context, outcome string) {
	m.remindersSent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
