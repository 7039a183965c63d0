package config

import (
	"errors"
	"fmt"
)

var (
	ErrRedisAddrMissing        = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB          = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidMaxRetries       = errors.New("TASK_QUEUE_MAX_RETRIES must be a positive integer")
	ErrFirestoreProjectMissing = errors.New("FIRESTORE_PROJECT_ID or GOOGLE_CLOUD_PROJECT is required")
	ErrGoogleClientMissing     = errors.New("GOOGLE_OAUTH_CONFIG_FILE or GOOGLE_OAUTH_CLIENT_ID and GOOGLE_OAUTH_CLIENT_SECRET are required")
)

type InvalidValueError struct {
	Env   string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s must be a positive integer, got %q", e.Env, e.Value)
}
