package domain

import "context"

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=domain

type PolicyRepository interface {
	ListByAgent(ctx context.Context, agentID string) ([]Policy, error)
	Get(ctx context.Context, id string) (*Policy, error)
	Create(ctx context.Context, policy *Policy) (string, error)
}

// AlertRepository serves one stored-record collection (alerts or reminders).
// ListByAgent returns records newest first.
type AlertRepository interface {
	ListByAgent(ctx context.Context, agentID string) ([]StoredAlert, error)
	Create(ctx context.Context, alert *StoredAlert) (string, error)
}

type UserRepository interface {
	Get(ctx context.Context, uid string) (*UserProfile, error)
	Initialize(ctx context.Context, profile *UserProfile) error
	Update(ctx context.Context, uid string, fields map[string]any) error
}

type FileStorage interface {
	Upload(ctx context.Context, upload *Upload) (*StoredFile, error)
}
