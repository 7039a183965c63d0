//go:build gcloud

package feedrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt  time.Time `bigquery:"recorded_at"`
	GeneratedAt time.Time `bigquery:"generated_at"`
	AgentID     string    `bigquery:"agent_id"`
	Kind        string    `bigquery:"kind"`
	Total       int64     `bigquery:"total"`
	Manual      int64     `bigquery:"manual"`
	Auto        int64     `bigquery:"auto"`
	Suppressed  int64     `bigquery:"suppressed"`
	Skipped     int64     `bigquery:"skipped"`
	Critical    int64     `bigquery:"critical"`
	Moderate    int64     `bigquery:"moderate"`
	Upcoming    int64     `bigquery:"upcoming"`
	Expired     int64     `bigquery:"expired"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.FeedRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "feed snapshot recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, feed snapshot recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, feed snapshot recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "feed snapshot recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordSnapshot(ctx context.Context, s domain.FeedSnapshot) error {
	record := &bigQueryRecord{
		RecordedAt:  time.Now(),
		GeneratedAt: s.GeneratedAt,
		AgentID:     s.AgentID,
		Kind:        s.Kind.String(),
		Total:       int64(s.Total),
		Manual:      int64(s.Manual),
		Auto:        int64(s.Auto),
		Suppressed:  int64(s.Suppressed),
		Skipped:     int64(s.Skipped),
		Critical:    int64(s.Critical),
		Moderate:    int64(s.Moderate),
		Upcoming:    int64(s.Upcoming),
		Expired:     int64(s.Expired),
	}

	if err := r.inserter.Put(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to insert feed snapshot to BigQuery",
			slog.String("error", err.Error()),
			slog.String("agent_id", s.AgentID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
