//go:build !gcloud

package feedrecorder

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

const snapshotMeasurement = "feed_snapshot"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.FeedRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "feed snapshot recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, feed snapshot recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "feed snapshot recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
	}, nil
}

// RecordSnapshot logs write failures instead of returning them so that
// analytics never fail a feed request.
func (r *influxDBRecorder) RecordSnapshot(ctx context.Context, snapshot domain.FeedSnapshot) error {
	if err := r.writeAPI.WritePoint(ctx, snapshotPoint(snapshot)); err != nil {
		slog.WarnContext(ctx, "failed to write feed snapshot to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("agent_id", snapshot.AgentID),
			slog.String("kind", snapshot.Kind.String()),
		)
	}
	return nil
}

func snapshotPoint(s domain.FeedSnapshot) *write.Point {
	return influxdb2.NewPoint(
		snapshotMeasurement,
		map[string]string{
			"agent_id": s.AgentID,
			"kind":     s.Kind.String(),
		},
		map[string]any{
			"total":      s.Total,
			"manual":     s.Manual,
			"auto":       s.Auto,
			"suppressed": s.Suppressed,
			"skipped":    s.Skipped,
			"critical":   s.Critical,
			"moderate":   s.Moderate,
			"upcoming":   s.Upcoming,
			"expired":    s.Expired,
		},
		s.GeneratedAt,
	)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
