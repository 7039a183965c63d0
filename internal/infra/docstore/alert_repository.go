package docstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/observability/tracing"
)

// alertRepository serves either the alerts or the reminders collection;
// both share the stored record shape.
type alertRepository struct {
	client     *firestore.Client
	collection string
}

func NewAlertRepository(client *firestore.Client, collection string) domain.AlertRepository {
	return &alertRepository{
		client:     client,
		collection: collection,
	}
}

func (r *alertRepository) ListByAgent(ctx context.Context, agentID string) (_ []domain.StoredAlert, err error) {
	ctx, span := tracing.StartFirestoreSpan(ctx, "query", r.collection)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	// Ordering happens here rather than in the query: an orderBy clause
	// drops documents that lack the field.
	iter := r.client.Collection(r.collection).Where("agentId", "==", agentID).Documents(ctx)
	defer iter.Stop()

	alerts := []domain.StoredAlert{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", r.collection, err)
		}
		alerts = append(alerts, decodeStoredAlert(snap.Ref.ID, snap.Data()))
	}

	sortNewestFirst(alerts)
	return alerts, nil
}

func (r *alertRepository) Create(ctx context.Context, alert *domain.StoredAlert) (_ string, err error) {
	ctx, span := tracing.StartFirestoreSpan(ctx, "add", r.collection)
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	if alert == nil || alert.AgentID == "" {
		return "", ErrInvalidDocument
	}

	data := encodeStoredAlert(alert)
	data["createdAt"] = firestore.ServerTimestamp

	ref, _, err := r.client.Collection(r.collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to create %s record: %w", r.collection, err)
	}

	return ref.ID, nil
}

// sortNewestFirst orders by sentDate, then createdAt, descending. Records
// with neither timestamp keep their relative order at the end.
func sortNewestFirst(alerts []domain.StoredAlert) {
	slices.SortStableFunc(alerts, func(a, b domain.StoredAlert) int {
		return cmp.Compare(recency(b).UnixNano(), recency(a).UnixNano())
	})
}

func recency(a domain.StoredAlert) time.Time {
	if !a.SentDate.IsZero() {
		return a.SentDate
	}
	if !a.CreatedAt.IsZero() {
		return a.CreatedAt
	}
	return time.Unix(0, 0)
}
