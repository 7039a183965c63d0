package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/infra/taskqueue"
	"github.com/KasumiMercury/policy-hub/internal/observability/metrics"
	"github.com/KasumiMercury/policy-hub/internal/service/dedup"
	"github.com/KasumiMercury/policy-hub/internal/service/expiry"
)

const (
	outcomeSent     = "sent"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

type SendResult struct {
	AlertID         string          `json:"alertId"`
	TaskName        string          `json:"taskName"`
	Priority        domain.Priority `json:"priority"`
	DaysUntilExpiry int             `json:"daysUntilExpiry"`
}

// Service dispatches reminder emails on demand. A dispatched reminder is
// recorded as a Pending alert, which suppresses the policy's auto alert.
type Service struct {
	policyRepo  domain.PolicyRepository
	alertRepo   domain.AlertRepository
	taskQueue   taskqueue.TaskQueue
	classifier  *expiry.Classifier
	feedMetrics *metrics.FeedMetrics
}

// NewService accepts a nil taskQueue; Send then reports ErrDispatchDisabled.
func NewService(
	policyRepo domain.PolicyRepository,
	alertRepo domain.AlertRepository,
	taskQueue taskqueue.TaskQueue,
	classifier *expiry.Classifier,
	feedMetrics *metrics.FeedMetrics,
) *Service {
	if classifier == nil {
		panic("reminder: nil classifier")
	}
	return &Service{
		policyRepo:  policyRepo,
		alertRepo:   alertRepo,
		taskQueue:   taskQueue,
		classifier:  classifier,
		feedMetrics: feedMetrics,
	}
}

func (s *Service) Send(ctx context.Context, agentID, policyID string, now time.Time) (*SendResult, error) {
	result, err := s.send(ctx, agentID, policyID, now)

	outcome := outcomeSent
	switch {
	case err == nil:
	case isRejection(err):
		outcome = outcomeRejected
	default:
		outcome = outcomeFailed
	}
	if s.feedMetrics != nil {
		s.feedMetrics.RecordReminderDispatched(ctx, outcome)
	}

	return result, err
}

func (s *Service) send(ctx context.Context, agentID, policyID string, now time.Time) (*SendResult, error) {
	if agentID == "" {
		return nil, domain.ErrInvalidAgentID
	}
	if s.taskQueue == nil {
		return nil, domain.ErrDispatchDisabled
	}

	policy, err := s.policyRepo.Get(ctx, policyID)
	if err != nil {
		return nil, err
	}
	if policy.AgentID != agentID {
		return nil, domain.ErrPolicyNotFound
	}
	if policy.Customer.Email == "" {
		return nil, domain.ErrMissingCustomerEmail
	}
	if !policy.Status.IsActive() || !policy.HasExpiry() {
		return nil, domain.ErrPolicyOutsideWindow
	}

	c, visible := s.classifier.Classify(policy.ExpiryDate, now)
	if !visible {
		return nil, domain.ErrPolicyOutsideWindow
	}

	alertType := dedup.AlertTypeFor(c.DaysUntilExpiry)
	task := &taskqueue.ReminderTask{
		TaskID:          uuid.NewString(),
		AgentID:         agentID,
		PolicyID:        policy.ID,
		PolicyNumber:    policy.PolicyNumber,
		PolicyType:      policy.PolicyType,
		CustomerName:    policy.Customer.Name,
		CustomerEmail:   policy.Customer.Email,
		AlertType:       alertType,
		Priority:        c.Priority.String(),
		DaysUntilExpiry: c.DaysUntilExpiry,
		ExpiryDate:      policy.ExpiryDate,
	}

	resp, err := s.taskQueue.RegisterReminder(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	alertID, err := s.alertRepo.Create(ctx, &domain.StoredAlert{
		PolicyID:      policy.ID,
		PolicyNumber:  policy.PolicyNumber,
		AgentID:       agentID,
		AlertType:     alertType,
		Status:        domain.AlertStatusPending,
		CustomerName:  policy.Customer.Name,
		CustomerEmail: policy.Customer.Email,
		Priority:      c.Priority,
		ExpiryDate:    policy.ExpiryDate,
		SentDate:      now,
	})
	if err != nil {
		if delErr := s.taskQueue.DeleteTask(ctx, task.TaskID); delErr != nil {
			slog.ErrorContext(ctx, "failed to withdraw reminder task after alert write failure",
				slog.String("event", "reminder.compensate.fail"),
				slog.String("task_id", task.TaskID),
				slog.String("policy_id", policy.ID),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("failed to record reminder alert: %w", err)
	}

	slog.InfoContext(ctx, "reminder dispatched",
		slog.String("event", "reminder.send.success"),
		slog.String("policy_id", policy.ID),
		slog.String("alert_id", alertID),
		slog.String("task_name", resp.Name),
		slog.String("priority", c.Priority.String()),
		slog.Int("days_until_expiry", c.DaysUntilExpiry),
	)

	return &SendResult{
		AlertID:         alertID,
		TaskName:        resp.Name,
		Priority:        c.Priority,
		DaysUntilExpiry: c.DaysUntilExpiry,
	}, nil
}

func isRejection(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidAgentID,
		domain.ErrPolicyNotFound,
		domain.ErrMissingCustomerEmail,
		domain.ErrPolicyOutsideWindow,
		domain.ErrDispatchDisabled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
