package feedrecorder

import (
	"context"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.FeedRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordSnapshot(_ context.Context, _ domain.FeedSnapshot) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
