package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/observability/tracing"
)

type policyRepository struct {
	client *firestore.Client
}

func NewPolicyRepository(client *firestore.Client) domain.PolicyRepository {
	return &policyRepository{
		client: client,
	}
}

func (r *policyRepository) ListByAgent(ctx context.Context, agentID string) (_ []domain.Policy, err error) {
	ctx, span := tracing.StartFirestoreSpan(ctx, "query", CollectionPolicies)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	iter := r.client.Collection(CollectionPolicies).Where("agentId", "==", agentID).Documents(ctx)
	defer iter.Stop()

	policies := []domain.Policy{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list policies: %w", err)
		}
		policies = append(policies, decodePolicy(snap.Ref.ID, snap.Data()))
	}

	return policies, nil
}

func (r *policyRepository) Get(ctx context.Context, id string) (_ *domain.Policy, err error) {
	if id == "" {
		return nil, domain.ErrPolicyNotFound
	}

	ctx, span := tracing.StartFirestoreSpan(ctx, "get", CollectionPolicies)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	snap, err := r.client.Collection(CollectionPolicies).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	policy := decodePolicy(snap.Ref.ID, snap.Data())
	return &policy, nil
}

func (r *policyRepository) Create(ctx context.Context, policy *domain.Policy) (_ string, err error) {
	ctx, span := tracing.StartFirestoreSpan(ctx, "add", CollectionPolicies)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	if policy == nil || policy.AgentID == "" {
		return "", ErrInvalidDocument
	}

	data := encodePolicy(policy)
	data["createdAt"] = firestore.ServerTimestamp

	ref, _, err := r.client.Collection(CollectionPolicies).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to create policy: %w", err)
	}

	return ref.ID, nil
}
