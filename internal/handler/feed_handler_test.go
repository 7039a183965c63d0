package handler

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/infra/taskqueue"
	"github.com/KasumiMercury/policy-hub/internal/service/dedup"
	"github.com/KasumiMercury/policy-hub/internal/service/expiry"
	"github.com/KasumiMercury/policy-hub/internal/service/feed"
	"github.com/KasumiMercury/policy-hub/internal/service/reminder"
)

func daysFromNow(d int) time.Time {
	return now.Add(time.Duration(d) * 24 * time.Hour)
}

type feedFixture struct {
	policies  *domain.MockPolicyRepository
	alerts    *domain.MockAlertRepository
	reminders *domain.MockAlertRepository
	queue     *taskqueue.MockTaskQueue
	r         *gin.Engine
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &feedFixture{
		policies:  domain.NewMockPolicyRepository(ctrl),
		alerts:    domain.NewMockAlertRepository(ctrl),
		reminders: domain.NewMockAlertRepository(ctrl),
		queue:     taskqueue.NewMockTaskQueue(ctrl),
		r:         gin.New(),
	}

	classifier := expiry.NewClassifier()
	feedHandler := NewFeedHandler(feed.NewService(
		f.policies, f.alerts, f.reminders, dedup.NewDeduplicator(classifier), nil, nil,
	))
	feedHandler.now = fixedClock
	reminderHandler := NewReminderHandler(reminder.NewService(f.policies, f.alerts, f.queue, classifier, nil))
	reminderHandler.now = fixedClock

	api := f.r.Group("/api/policies")
	api.GET("/alerts", feedHandler.HandleAlerts)
	api.GET("/reminders", feedHandler.HandleReminders)
	api.POST("/reminders/send", reminderHandler.HandleSend)
	return f
}

func TestFeedHandlerAlerts(t *testing.T) {
	f := newFeedFixture(t)
	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "p-10", PolicyNumber: "N-10", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(10)},
		{ID: "p-5", PolicyNumber: "N-5", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(5)},
	}, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.StoredAlert{
		{ID: "a-1", PolicyID: "p-5", Status: domain.AlertStatusSent, SentDate: now.Add(-time.Hour)},
	}, nil)

	w := serve(f.r, httptest.NewRequest(http.MethodGet, "/api/policies/alerts?agentId=agent-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var body feed.AlertFeed
	decodeBody(t, w, &body)
	if len(body.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(body.Items))
	}
	if body.Items[0].Source != domain.SourceAuto || *body.Items[0].PolicyID != "p-10" {
		t.Errorf("Items[0] = %+v, want auto p-10", body.Items[0])
	}
	if body.Items[1].Source != domain.SourceManual {
		t.Errorf("Items[1].Source = %q, want manual", body.Items[1].Source)
	}
	if body.Summary.Total != 2 || body.Summary.Auto != 1 || body.Summary.Sent != 1 {
		t.Errorf("Summary = %+v", body.Summary)
	}
}

func TestFeedHandlerRemindersAsOf(t *testing.T) {
	f := newFeedFixture(t)
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "p-1", Status: domain.PolicyStatusActive, ExpiryDate: asOf.Add(3 * 24 * time.Hour)},
		{ID: "p-2", Status: domain.PolicyStatusActive, ExpiryDate: asOf.Add(20 * 24 * time.Hour)},
	}, nil)
	f.reminders.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)

	w := serve(f.r, httptest.NewRequest(http.MethodGet,
		"/api/policies/reminders?agentId=agent-1&asOf=2024-06-01T00:00:00Z&priority=Critical", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var body feed.ReminderFeed
	decodeBody(t, w, &body)
	if len(body.Items) != 1 || *body.Items[0].PolicyID != "p-1" {
		t.Errorf("Items = %+v, want only p-1", body.Items)
	}
	if body.Summary.Critical != 1 || body.Summary.Moderate != 1 || body.Summary.Total != 2 {
		t.Errorf("Summary = %+v", body.Summary)
	}
}

func TestFeedHandlerNonFinitePremium(t *testing.T) {
	f := newFeedFixture(t)
	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "p-nan", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(3), PremiumAmount: math.NaN()},
		{ID: "p-inf", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(4), PremiumAmount: math.Inf(1)},
		{ID: "p-ok", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(5), PremiumAmount: 1200},
	}, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)

	w := serve(f.r, httptest.NewRequest(http.MethodGet, "/api/policies/alerts?agentId=agent-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var body feed.AlertFeed
	decodeBody(t, w, &body)
	if len(body.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(body.Items))
	}
	if body.Items[0].PremiumAmount != 0 || body.Items[2].PremiumAmount != 1200 {
		t.Errorf("premiums = %v, %v, want 0, 1200", body.Items[0].PremiumAmount, body.Items[2].PremiumAmount)
	}
}

func TestFeedHandlerRemindersSkipDispatched(t *testing.T) {
	f := newFeedFixture(t)
	f.policies.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "p-1", PolicyNumber: "N-1", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(3)},
		{ID: "p-2", PolicyNumber: "N-2", Status: domain.PolicyStatusActive, ExpiryDate: daysFromNow(6)},
	}, nil)
	f.reminders.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return(nil, nil)
	f.alerts.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.StoredAlert{
		{ID: "a-1", PolicyID: "p-1", Status: domain.AlertStatusPending, SentDate: now},
	}, nil)

	w := serve(f.r, httptest.NewRequest(http.MethodGet, "/api/policies/reminders?agentId=agent-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var body feed.ReminderFeed
	decodeBody(t, w, &body)
	if len(body.Items) != 1 || *body.Items[0].PolicyID != "p-2" {
		t.Errorf("Items = %+v, want only p-2", body.Items)
	}
}

func TestFeedHandlerBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing agent", "/api/policies/alerts"},
		{"bad asOf", "/api/policies/alerts?agentId=agent-1&asOf=yesterday"},
		{"unknown priority", "/api/policies/reminders?agentId=agent-1&priority=Urgent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeedFixture(t)

			w := serve(f.r, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func sendRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/policies/reminders/send", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestReminderHandlerSend(t *testing.T) {
	f := newFeedFixture(t)
	f.policies.EXPECT().Get(gomock.Any(), "policy-1").Return(&domain.Policy{
		ID:         "policy-1",
		AgentID:    "agent-1",
		Status:     domain.PolicyStatusActive,
		ExpiryDate: daysFromNow(5),
		Customer:   domain.Customer{Name: "John", Email: "john@example.com"},
	}, nil)
	f.queue.EXPECT().RegisterReminder(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, task *taskqueue.ReminderTask) (*taskqueue.TaskResponse, error) {
			return &taskqueue.TaskResponse{Name: "tasks/" + task.TaskID}, nil
		})
	f.alerts.EXPECT().Create(gomock.Any(), gomock.Any()).Return("alert-1", nil)

	w := serve(f.r, sendRequest(`{"agentId":"agent-1","policyId":"policy-1"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var body SendReminderResponse
	decodeBody(t, w, &body)
	if !body.Success || body.SendResult == nil || body.AlertID != "alert-1" || body.DaysUntilExpiry != 5 {
		t.Errorf("body = %+v", body)
	}
}

func TestReminderHandlerSendErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(f *feedFixture)
		wantCode int
	}{
		{
			name:     "malformed body",
			body:     `{`,
			setup:    func(*feedFixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing policy id",
			body:     `{"agentId":"agent-1"}`,
			setup:    func(*feedFixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "policy of another agent",
			body: `{"agentId":"agent-1","policyId":"policy-1"}`,
			setup: func(f *feedFixture) {
				f.policies.EXPECT().Get(gomock.Any(), "policy-1").Return(&domain.Policy{ID: "policy-1", AgentID: "agent-2"}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "outside window",
			body: `{"agentId":"agent-1","policyId":"policy-1"}`,
			setup: func(f *feedFixture) {
				f.policies.EXPECT().Get(gomock.Any(), "policy-1").Return(&domain.Policy{
					ID:         "policy-1",
					AgentID:    "agent-1",
					Status:     domain.PolicyStatusActive,
					ExpiryDate: daysFromNow(200),
					Customer:   domain.Customer{Email: "john@example.com"},
				}, nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeedFixture(t)
			tt.setup(f)

			w := serve(f.r, sendRequest(tt.body))

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}
