//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs returns nothing outside GCP.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
