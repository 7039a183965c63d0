package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/observability/metrics"
	"github.com/KasumiMercury/policy-hub/internal/observability/tracing"
	"github.com/KasumiMercury/policy-hub/internal/service/dedup"
	"github.com/KasumiMercury/policy-hub/internal/service/ordering"
)

type Service struct {
	policyRepo   domain.PolicyRepository
	alertRepo    domain.AlertRepository
	reminderRepo domain.AlertRepository
	deduplicator *dedup.Deduplicator
	recorder     domain.FeedRecorder
	feedMetrics  *metrics.FeedMetrics
}

func NewService(
	policyRepo domain.PolicyRepository,
	alertRepo domain.AlertRepository,
	reminderRepo domain.AlertRepository,
	deduplicator *dedup.Deduplicator,
	recorder domain.FeedRecorder,
	feedMetrics *metrics.FeedMetrics,
) *Service {
	if deduplicator == nil {
		panic("feed: nil deduplicator")
	}
	return &Service{
		policyRepo:   policyRepo,
		alertRepo:    alertRepo,
		reminderRepo: reminderRepo,
		deduplicator: deduplicator,
		recorder:     recorder,
		feedMetrics:  feedMetrics,
	}
}

func (s *Service) AlertFeed(ctx context.Context, agentID string, now time.Time) (*AlertFeed, error) {
	items, err := s.build(ctx, domain.FeedKindAlerts, s.alertRepo, nil, agentID, now)
	if err != nil {
		return nil, err
	}

	return &AlertFeed{
		Items:   items,
		Summary: summarizeAlerts(items),
	}, nil
}

// ReminderFeed returns the reminder feed, narrowed to priority unless it is
// the zero Priority. Policies with a record in the alerts collection, such as
// a dispatched reminder, get no auto record here.
func (s *Service) ReminderFeed(ctx context.Context, agentID string, now time.Time, priority domain.Priority) (*ReminderFeed, error) {
	items, err := s.build(ctx, domain.FeedKindReminders, s.reminderRepo, s.alertRepo, agentID, now)
	if err != nil {
		return nil, err
	}

	return &ReminderFeed{
		Items:   filterByPriority(items, priority),
		Summary: summarizeReminders(items),
	}, nil
}

func (s *Service) build(
	ctx context.Context,
	kind domain.FeedKind,
	storedRepo domain.AlertRepository,
	dispatchedRepo domain.AlertRepository,
	agentID string,
	now time.Time,
) ([]domain.AlertView, error) {
	if agentID == "" {
		return nil, domain.ErrInvalidAgentID
	}

	ctx, span := tracing.StartFeedBuildSpan(ctx, kind.String(), agentID, now)
	defer span.End()
	start := time.Now()

	var (
		policies   []domain.Policy
		stored     []domain.StoredAlert
		dispatched []domain.StoredAlert
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		policies, err = s.policyRepo.ListByAgent(gctx, agentID)
		if err != nil {
			return fmt.Errorf("failed to load policies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stored, err = storedRepo.ListByAgent(gctx, agentID)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", kind, err)
		}
		return nil
	})
	if dispatchedRepo != nil {
		g.Go(func() error {
			var err error
			dispatched, err = dispatchedRepo.ListByAgent(gctx, agentID)
			if err != nil {
				return fmt.Errorf("failed to load dispatched alerts: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to load feed sources",
			slog.String("event", "feed.load.fail"),
			slog.String("kind", kind.String()),
			slog.String("agent_id", agentID),
			slog.String("error", err.Error()),
		)
		tracing.RecordFeedBuildResult(span, 0, 0, 0, 0, err)
		return nil, err
	}

	result := s.deduplicator.ReconcileDispatched(stored, dispatched, policies, now)
	items := ordering.Sort(result.Items)
	skipped := result.Inactive + result.NoExpiry + result.OutOfWindow

	tracing.RecordFeedBuildResult(span, result.Manual, result.Auto, result.Suppressed, skipped, nil)

	slog.DebugContext(ctx, "feed built",
		slog.String("kind", kind.String()),
		slog.String("agent_id", agentID),
		slog.Int("policies", len(policies)),
		slog.Int("stored", len(stored)),
		slog.Int("dispatched", len(dispatched)),
		slog.Int("manual", result.Manual),
		slog.Int("auto", result.Auto),
		slog.Int("suppressed", result.Suppressed),
		slog.Int("collapsed", result.Collapsed),
		slog.Int("skipped", skipped),
	)

	s.recordMetrics(ctx, kind, items, result, time.Since(start))
	s.recordSnapshot(ctx, kind, agentID, now, items, result, skipped)

	return items, nil
}

func (s *Service) recordMetrics(ctx context.Context, kind domain.FeedKind, items []domain.AlertView, result dedup.Result, elapsed time.Duration) {
	if s.feedMetrics == nil {
		return
	}

	s.feedMetrics.RecordBuildDuration(ctx, kind.String(), elapsed)

	type bucket struct {
		source   domain.Source
		priority domain.Priority
	}
	counts := make(map[bucket]int)
	for _, item := range items {
		counts[bucket{item.Source, item.Priority}]++
	}
	for b, n := range counts {
		s.feedMetrics.RecordRecords(ctx, kind.String(), string(b.source), b.priority.String(), n)
	}

	s.feedMetrics.RecordSkipped(ctx, kind.String(), "inactive", result.Inactive)
	s.feedMetrics.RecordSkipped(ctx, kind.String(), "no_expiry", result.NoExpiry)
	s.feedMetrics.RecordSkipped(ctx, kind.String(), "out_of_window", result.OutOfWindow)
	s.feedMetrics.RecordSkipped(ctx, kind.String(), "suppressed", result.Suppressed)
}

func (s *Service) recordSnapshot(
	ctx context.Context,
	kind domain.FeedKind,
	agentID string,
	now time.Time,
	items []domain.AlertView,
	result dedup.Result,
	skipped int,
) {
	if s.recorder == nil {
		return
	}

	buckets := summarizeReminders(items)
	snapshot := domain.FeedSnapshot{
		AgentID:     agentID,
		Kind:        kind,
		GeneratedAt: now,
		Total:       len(items),
		Manual:      result.Manual,
		Auto:        result.Auto,
		Suppressed:  result.Suppressed,
		Skipped:     skipped,
		Critical:    buckets.Critical,
		Moderate:    buckets.Moderate,
		Upcoming:    buckets.Upcoming,
		Expired:     buckets.Expired,
	}

	if err := s.recorder.RecordSnapshot(ctx, snapshot); err != nil {
		slog.WarnContext(ctx, "failed to record feed snapshot",
			slog.String("kind", kind.String()),
			slog.String("agent_id", agentID),
			slog.String("error", err.Error()),
		)
	}
}

func summarizeAlerts(items []domain.AlertView) AlertSummary {
	summary := AlertSummary{Total: len(items)}
	for i := range items {
		switch items[i].Status {
		case domain.AlertStatusSent:
			summary.Sent++
		case domain.AlertStatusPending:
			summary.Pending++
		case domain.AlertStatusFailed:
			summary.Failed++
		}
		if items[i].Source == domain.SourceAuto {
			summary.Auto++
		}
	}
	return summary
}

func summarizeReminders(items []domain.AlertView) ReminderSummary {
	summary := ReminderSummary{Total: len(items)}
	for i := range items {
		switch items[i].Priority {
		case domain.PriorityCritical:
			summary.Critical++
		case domain.PriorityModerate:
			summary.Moderate++
		case domain.PriorityUpcoming:
			summary.Upcoming++
		case domain.PriorityExpired:
			summary.Expired++
		}
	}
	return summary
}

func filterByPriority(items []domain.AlertView, priority domain.Priority) []domain.AlertView {
	if priority == "" {
		return items
	}
	filtered := make([]domain.AlertView, 0, len(items))
	for _, item := range items {
		if item.Priority == priority {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
