package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

const (
	CollectionUsers     = "users"
	CollectionPolicies  = "policies"
	CollectionAlerts    = "alerts"
	CollectionReminders = "reminders"
)

// NewClient connects to the named Firestore database. When
// FIRESTORE_EMULATOR_HOST is set the client library targets the emulator.
func NewClient(ctx context.Context, projectID, databaseID string, opts ...option.ClientOption) (*firestore.Client, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}
