package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/service/dedup"
	"github.com/KasumiMercury/policy-hub/internal/service/expiry"
)

var now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func daysFromNow(d int) time.Time {
	return now.Add(time.Duration(d) * 24 * time.Hour)
}

type fixture struct {
	policies  *domain.MockPolicyRepository
	alerts    *domain.MockAlertRepository
	reminders *domain.MockAlertRepository
	recorder  *domain.MockFeedRecorder
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		policies:  domain.NewMockPolicyRepository(ctrl),
		alerts:    domain.NewMockAlertRepository(ctrl),
		reminders: domain.NewMockAlertRepository(ctrl),
		recorder:  domain.NewMockFeedRecorder(ctrl),
	}
	f.svc = NewService(
		f.policies,
		f.alerts,
		f.reminders,
		dedup.NewDeduplicator(expiry.NewClassifier()),
		f.recorder,
		nil,
	)
	return f
}

func TestAlertFeed(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "p-10", PolicyNumber: "N-10", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(10)},
		{ID: "p-5", PolicyNumber: "N-5", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(5)},
		{ID: "p-lapsed", Status: domain.PolicyStatusLapsed, ExpiryDate: daysFromNow(3)},
	}, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.StoredAlert{
		{ID: "a-1", PolicyID: "p-5", Status: domain.AlertStatusSent, SentDate: now.Add(-time.Hour)},
	}, nil)
	f.recorder.EXPECT().RecordSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s domain.FeedSnapshot) error {
			if s.Kind != domain.FeedKindAlerts || s.Total != 2 || s.Auto != 1 || s.Manual != 1 || s.Suppressed != 1 || s.Skipped != 1 {
				t.Errorf("snapshot = %+v", s)
			}
			return nil
		})

	got, err := f.svc.AlertFeed(context.Background(), "agent-1", now)
	if err != nil {
		t.Fatalf("AlertFeed() error = %v", err)
	}

	if len(got.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(got.Items))
	}
	if got.Items[0].Source != domain.SourceAuto || *got.Items[0].PolicyID != "p-10" {
		t.Errorf("Items[0] = %+v, want auto record for p-10", got.Items[0])
	}
	if got.Items[1].Source != domain.SourceManual || got.Items[1].ID != "a-1" {
		t.Errorf("Items[1] = %+v, want manual record a-1", got.Items[1])
	}

	want := AlertSummary{Total: 2, Sent: 1, Pending: 1, Auto: 1}
	if got.Summary != want {
		t.Errorf("Summary = %+v, want %+v", got.Summary, want)
	}
}

func TestReminderFeedFiltersByPriority(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "critical", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(3)},
		{ID: "moderate", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(20)},
		{ID: "upcoming", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(60)},
		{ID: "expired", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(-10)},
		{ID: "far", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(200)},
	}, nil)
	f.reminders.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.recorder.EXPECT().RecordSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	got, err := f.svc.ReminderFeed(context.Background(), "agent-1", now, domain.PriorityCritical)
	if err != nil {
		t.Fatalf("ReminderFeed() error = %v", err)
	}

	if len(got.Items) != 1 || *got.Items[0].PolicyID != "critical" {
		t.Errorf("Items = %+v, want only the critical policy", got.Items)
	}

	want := ReminderSummary{Critical: 1, Moderate: 1, Upcoming: 1, Expired: 1, Total: 4}
	if got.Summary != want {
		t.Errorf("Summary = %+v, want %+v", got.Summary, want)
	}
}

func TestFeedOrdersAscendingByDays(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "later", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(40)},
		{ID: "expired", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(-2)},
		{ID: "soon", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(1)},
	}, nil)
	f.reminders.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.recorder.EXPECT().RecordSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	got, err := f.svc.ReminderFeed(context.Background(), "agent-1", now, "")
	if err != nil {
		t.Fatalf("ReminderFeed() error = %v", err)
	}

	wantOrder := []string{"expired", "soon", "later"}
	for i, id := range wantOrder {
		if *got.Items[i].PolicyID != id {
			t.Errorf("Items[%d].PolicyID = %q, want %q", i, *got.Items[i].PolicyID, id)
		}
	}
}

func TestReminderFeedSkipsDispatchedPolicies(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "sent", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(3)},
		{ID: "open", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(5)},
	}, nil)
	f.reminders.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.StoredAlert{
		{ID: "a-1", PolicyID: "sent", Status: domain.AlertStatusPending, SentDate: now},
	}, nil)
	f.recorder.EXPECT().RecordSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s domain.FeedSnapshot) error {
			if s.Kind != domain.FeedKindReminders || s.Total != 1 || s.Suppressed != 1 || s.Manual != 0 {
				t.Errorf("snapshot = %+v", s)
			}
			return nil
		})

	got, err := f.svc.ReminderFeed(context.Background(), "agent-1", now, "")
	if err != nil {
		t.Fatalf("ReminderFeed() error = %v", err)
	}

	if len(got.Items) != 1 || *got.Items[0].PolicyID != "open" {
		t.Errorf("Items = %+v, want only the open policy", got.Items)
	}
}

func TestReminderFeedPropagatesDispatchedError(t *testing.T) {
	f := newFixture(t)
	repoErr := errors.New("alerts unavailable")

	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil).AnyTimes()
	f.reminders.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil).AnyTimes()
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, repoErr)

	if _, err := f.svc.ReminderFeed(context.Background(), "agent-1", now, ""); !errors.Is(err, repoErr) {
		t.Errorf("ReminderFeed() error = %v, want %v", err, repoErr)
	}
}

func TestFeedRequiresAgentID(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.AlertFeed(context.Background(), "", now); !errors.Is(err, domain.ErrInvalidAgentID) {
		t.Errorf("AlertFeed() error = %v, want %v", err, domain.ErrInvalidAgentID)
	}
	if _, err := f.svc.ReminderFeed(context.Background(), "", now, ""); !errors.Is(err, domain.ErrInvalidAgentID) {
		t.Errorf("ReminderFeed() error = %v, want %v", err, domain.ErrInvalidAgentID)
	}
}

func TestFeedPropagatesRepositoryError(t *testing.T) {
	f := newFixture(t)
	repoErr := errors.New("firestore down")

	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, repoErr)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil).AnyTimes()

	if _, err := f.svc.AlertFeed(context.Background(), "agent-1", now); !errors.Is(err, repoErr) {
		t.Errorf("AlertFeed() error = %v, want %v", err, repoErr)
	}
}

func TestFeedIgnoresRecorderFailure(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.recorder.EXPECT().RecordSnapshot(gomock.Any(), gomock.Any()).Return(errors.New("influx down"))

	got, err := f.svc.AlertFeed(context.Background(), "agent-1", now)
	if err != nil {
		t.Fatalf("AlertFeed() error = %v", err)
	}
	if got.Items == nil || len(got.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil slice", got.Items)
	}
}

func TestNewServicePanicsOnNilDeduplicator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewService(nil deduplicator) did not panic")
		}
	}()
	NewService(nil, nil, nil, nil, nil, nil)
}
