package logging

import (
	"context"

	"github.com/google/uuid"
)

const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ValidateAndExtractRequestID returns requestID when it is a UUID and a fresh
// UUID otherwise.
func ValidateAndExtractRequestID(requestID string) string {
	if requestID != "" {
		if parsed, err := uuid.Parse(requestID); err == nil {
			return parsed.String()
		}
	}
	return uuid.NewString()
}
