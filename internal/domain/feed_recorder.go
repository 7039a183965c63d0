package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=feed_recorder.go -destination=feed_recorder_mock.go -package=domain

// FeedSnapshot summarizes one computed feed for analytics.
type FeedSnapshot struct {
	AgentID     string
	Kind        FeedKind
	GeneratedAt time.Time
	Total       int
	Manual      int
	Auto        int
	Suppressed  int
	Skipped     int
	Critical    int
	Moderate    int
	Upcoming    int
	Expired     int
}

type FeedRecorder interface {
	RecordSnapshot(ctx context.Context, snapshot FeedSnapshot) error
	Close() error
}
