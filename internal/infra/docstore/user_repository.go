package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/observability/tracing"
)

type userRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) domain.UserRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) Get(ctx context.Context, uid string) (_ *domain.UserProfile, err error) {
	if uid == "" {
		return nil, domain.ErrUserNotFound
	}

	ctx, span := tracing.StartFirestoreSpan(ctx, "get", CollectionUsers)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	snap, err := r.client.Collection(CollectionUsers).Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user := decodeUser(snap.Ref.ID, snap.Data())
	return &user, nil
}

// Initialize merges a blank profile into the user's document. Fields it
// does not name, such as fullName, survive a repeated call.
func (r *userRepository) Initialize(ctx context.Context, profile *domain.UserProfile) (err error) {
	ctx, span := tracing.StartFirestoreSpan(ctx, "set", CollectionUsers)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	data := map[string]any{
		"uid":              profile.UID,
		"email":            profile.Email,
		"username":         profile.Username,
		"profileCompleted": profile.ProfileCompleted,
		"phone":            profile.Phone,
		"address":          profile.Address,
		"city":             profile.City,
		"state":            profile.State,
		"pincode":          profile.Pincode,
		"photoURL":         profile.PhotoURL,
		"createdAt":        firestore.ServerTimestamp,
		"updatedAt":        firestore.ServerTimestamp,
	}

	if _, err := r.client.Collection(CollectionUsers).Doc(profile.UID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to initialize user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, uid string, fields map[string]any) (err error) {
	if uid == "" {
		return domain.ErrUserNotFound
	}

	ctx, span := tracing.StartFirestoreSpan(ctx, "update", CollectionUsers)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := r.client.Collection(CollectionUsers).Doc(uid).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
