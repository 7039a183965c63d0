package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const feedTracerName = "github.com/KasumiMercury/policy-hub/internal/service/feed"

func FeedTracer() trace.Tracer {
	return otel.Tracer(feedTracerName)
}

func StartFeedBuildSpan(ctx context.Context, kind, agentID string, now time.Time) (context.Context, trace.Span) {
	return FeedTracer().Start(ctx, "feed.build",
		trace.WithAttributes(
			attribute.String("feed.kind", kind),
			attribute.String("feed.agent_id", agentID),
			attribute.String("feed.as_of", now.Format(time.RFC3339)),
		),
	)
}

func RecordFeedBuildResult(span trace.Span, manualCount, autoCount, suppressedCount, skippedCount int, err error) {
	span.SetAttributes(
		attribute.Int("feed.manual_count", manualCount),
		attribute.Int("feed.auto_count", autoCount),
		attribute.Int("feed.suppressed_count", suppressedCount),
		attribute.Int("feed.skipped_count", skippedCount),
	)
	RecordResult(span, err)
}

func StartExternalAPISpan(ctx context.Context, operation, target string) (context.Context, trace.Span) {
	return FeedTracer().Start(ctx, "external_api."+operation,
		trace.WithAttributes(
			attribute.String("peer.service", target),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartFirestoreSpan(ctx context.Context, operation, collection string) (context.Context, trace.Span) {
	return FeedTracer().Start(ctx, "firestore."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "firestore"),
			attribute.String("db.operation", operation),
			attribute.String("db.collection.name", collection),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
