package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/service/policy"
)

type policyFixture struct {
	repo  *domain.MockPolicyRepository
	files *domain.MockFileStorage
	r     *gin.Engine
}

func newPolicyFixture(t *testing.T) *policyFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &policyFixture{
		repo:  domain.NewMockPolicyRepository(ctrl),
		files: domain.NewMockFileStorage(ctrl),
		r:     gin.New(),
	}
	h := NewPolicyHandler(policy.NewService(f.repo, f.files, 1<<20))

	f.r.POST("/upload-and-save", LimitBody(16), h.HandleCreate("policyDocument"))
	api := f.r.Group("/api/policies")
	api.GET("", h.HandleList)
	api.POST("/add", LimitBody(16), h.HandleAdd())
	api.GET("/:id", h.HandleGet)
	return f
}

func TestPolicyHandlerList(t *testing.T) {
	f := newPolicyFixture(t)
	f.repo.EXPECT().ListByAgent(gomock.Any(), "agent-1").Return([]domain.Policy{
		{ID: "p-1", AgentID: "agent-1", PolicyNumber: "LI-001", Documents: []domain.Document{}},
	}, nil)

	w := serve(f.r, httptest.NewRequest(http.MethodGet, "/api/policies?agentId=agent-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var got []domain.Policy
	decodeBody(t, w, &got)
	if len(got) != 1 || got[0].PolicyNumber != "LI-001" {
		t.Errorf("policies = %+v", got)
	}
}

func TestPolicyHandlerListRequiresAgent(t *testing.T) {
	f := newPolicyFixture(t)

	w := serve(f.r, httptest.NewRequest(http.MethodGet, "/api/policies", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestPolicyHandlerGet(t *testing.T) {
	tests := []struct {
		name     string
		policy   *domain.Policy
		err      error
		wantCode int
	}{
		{name: "found", policy: &domain.Policy{ID: "p-1"}, wantCode: http.StatusOK},
		{name: "not found", err: domain.ErrPolicyNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPolicyFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), "p-1").Return(tt.policy, tt.err)

			w := serve(f.r, httptest.NewRequest(http.MethodGet, "/api/policies/p-1", nil))

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestPolicyHandlerCreate(t *testing.T) {
	fields := map[string]string{
		"agentId":       "agent-1",
		"policyNumber":  "LI-001",
		"customerName":  "John",
		"customerEmail": "john@example.com",
		"startDate":     "2024-01-01",
		"endDate":       "2025-01-01",
		"premiumAmount": "1200.50",
	}

	for _, route := range []struct {
		path  string
		field string
	}{
		{"/upload-and-save", "policyDocument"},
		{"/api/policies/add", "document"},
	} {
		t.Run(route.path, func(t *testing.T) {
			f := newPolicyFixture(t)
			f.files.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(
				&domain.StoredFile{ID: "file-1", WebViewLink: "https://drive.example.com/file-1"}, nil)
			f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, p *domain.Policy) (string, error) {
					if p.Status != domain.PolicyStatusActive {
						t.Errorf("Status = %q, want %q", p.Status, domain.PolicyStatusActive)
					}
					if !p.ExpiryDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
						t.Errorf("ExpiryDate = %v", p.ExpiryDate)
					}
					if p.PremiumAmount != 1200.50 {
						t.Errorf("PremiumAmount = %v, want 1200.50", p.PremiumAmount)
					}
					if p.ReminderDaysBefore != domain.DefaultReminderDaysBefore {
						t.Errorf("ReminderDaysBefore = %d", p.ReminderDaysBefore)
					}
					if len(p.Documents) != 1 || p.Documents[0].Name != "policy.pdf" {
						t.Errorf("Documents = %+v", p.Documents)
					}
					return "policy-1", nil
				})

			file := &formFile{field: route.field, name: "policy.pdf", contentType: "application/pdf", content: "%PDF"}
			w := serve(f.r, multipartRequest(t, route.path, fields, file))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
			}
			var body CreatePolicyResponse
			decodeBody(t, w, &body)
			if !body.Success || body.PolicyID != "policy-1" {
				t.Errorf("body = %+v", body)
			}
			if body.FileLink == nil || *body.FileLink != "https://drive.example.com/file-1" {
				t.Errorf("FileLink = %v", body.FileLink)
			}
		})
	}
}

func TestPolicyHandlerCreateWithoutDocument(t *testing.T) {
	f := newPolicyFixture(t)
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return("policy-2", nil)

	w := serve(f.r, multipartRequest(t, "/upload-and-save", map[string]string{"agentId": "agent-1"}, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body CreatePolicyResponse
	decodeBody(t, w, &body)
	if body.FileLink != nil {
		t.Errorf("FileLink = %q, want nil", *body.FileLink)
	}
}

func TestPolicyHandlerCreateRejectsBadForm(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "missing agent", fields: map[string]string{"policyNumber": "LI-001"}},
		{name: "bad premium", fields: map[string]string{"agentId": "agent-1", "premiumAmount": "lots"}},
		{name: "NaN premium", fields: map[string]string{"agentId": "agent-1", "premiumAmount": "NaN"}},
		{name: "infinite premium", fields: map[string]string{"agentId": "agent-1", "premiumAmount": "Inf"}},
		{name: "negative infinite premium", fields: map[string]string{"agentId": "agent-1", "premiumAmount": "-Inf"}},
		{name: "bad expiry", fields: map[string]string{"agentId": "agent-1", "expiryDate": "next year"}},
		{name: "negative reminder days", fields: map[string]string{"agentId": "agent-1", "reminderDaysBefore": "-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPolicyFixture(t)

			for _, path := range []string{"/upload-and-save", "/api/policies/add"} {
				w := serve(f.r, multipartRequest(t, path, tt.fields, nil))

				if w.Code != http.StatusBadRequest {
					t.Errorf("%s status = %d, want %d", path, w.Code, http.StatusBadRequest)
				}
			}
		})
	}
}

func TestPolicyHandlerAddRequiresCoreFields(t *testing.T) {
	complete := map[string]string{
		"agentId":      "agent-1",
		"policyNumber": "LI-001",
		"customerName": "John",
		"expiryDate":   "2025-01-01",
	}

	tests := []struct {
		name    string
		missing string
	}{
		{name: "policy number", missing: "policyNumber"},
		{name: "customer name", missing: "customerName"},
		{name: "expiry date", missing: "expiryDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPolicyFixture(t)

			fields := make(map[string]string, len(complete))
			for k, v := range complete {
				if k != tt.missing {
					fields[k] = v
				}
			}
			w := serve(f.r, multipartRequest(t, "/api/policies/add", fields, nil))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			var body ErrorResponse
			decodeBody(t, w, &body)
			if body.Message != "All fields are required." {
				t.Errorf("Message = %q, want %q", body.Message, "All fields are required.")
			}
		})
	}
}

func TestPolicyHandlerAddAcceptsEndDateAlias(t *testing.T) {
	f := newPolicyFixture(t)
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return("policy-3", nil)

	fields := map[string]string{
		"agentId":      "agent-1",
		"policyNumber": "LI-003",
		"customerName": "Jane",
		"endDate":      "2025-06-30",
	}
	w := serve(f.r, multipartRequest(t, "/api/policies/add", fields, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestPolicyHandlerCreateRejectsOversizedBody(t *testing.T) {
	f := newPolicyFixture(t)

	fields := map[string]string{"agentId": "agent-1", "policyNumber": "LI-001", "customerName": "John", "expiryDate": "2025-01-01"}
	file := &formFile{field: "document", name: "big.pdf", contentType: "application/pdf", content: strings.Repeat("x", 2<<20)}
	w := serve(f.r, multipartRequest(t, "/api/policies/add", fields, file))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusRequestEntityTooLarge, w.Body.String())
	}
	var body ErrorResponse
	decodeBody(t, w, &body)
	if body.Error != "file_too_large" {
		t.Errorf("Error = %q, want file_too_large", body.Error)
	}
}
