package policy

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

func TestCreateAppliesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPolicyRepository(ctrl)
	files := domain.NewMockFileStorage(ctrl)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Policy) (string, error) {
			if p.Status != domain.PolicyStatusActive {
				t.Errorf("Status = %q, want %q", p.Status, domain.PolicyStatusActive)
			}
			if p.ReminderDaysBefore != domain.DefaultReminderDaysBefore {
				t.Errorf("ReminderDaysBefore = %d, want %d", p.ReminderDaysBefore, domain.DefaultReminderDaysBefore)
			}
			if p.PremiumAmount != 0 {
				t.Errorf("PremiumAmount = %v, want 0", p.PremiumAmount)
			}
			if p.Documents == nil || len(p.Documents) != 0 {
				t.Errorf("Documents = %v, want empty", p.Documents)
			}
			return "policy-1", nil
		})

	got, err := NewService(repo, files, 1024).Create(context.Background(), CreateInput{AgentID: "agent-1"}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.PolicyID != "policy-1" || got.FileLink != "" {
		t.Errorf("Create() = %+v, want policy-1 without link", got)
	}
}

func TestCreateWithDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPolicyRepository(ctrl)
	files := domain.NewMockFileStorage(ctrl)

	files.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(&domain.StoredFile{ID: "file-1"}, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Policy) (string, error) {
			if len(p.Documents) != 1 {
				t.Fatalf("len(Documents) = %d, want 1", len(p.Documents))
			}
			doc := p.Documents[0]
			if doc.Type != domain.DefaultDocumentType || doc.Name != "policy.pdf" {
				t.Errorf("Documents[0] = %+v", doc)
			}
			if doc.URL != "https://drive.google.com/file/d/file-1/view" {
				t.Errorf("Documents[0].URL = %q", doc.URL)
			}
			return "policy-1", nil
		})

	got, err := NewService(repo, files, 1024).Create(context.Background(), CreateInput{
		AgentID:    "agent-1",
		ExpiryDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}, &domain.Upload{Name: "policy.pdf", Size: 4, Body: strings.NewReader("%PDF")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.FileLink != "https://drive.google.com/file/d/file-1/view" {
		t.Errorf("FileLink = %q", got.FileLink)
	}
}

func TestCreateErrors(t *testing.T) {
	uploadErr := errors.New("drive down")

	tests := []struct {
		name    string
		input   CreateInput
		doc     *domain.Upload
		setup   func(files *domain.MockFileStorage)
		wantErr error
	}{
		{
			name:    "missing agent",
			input:   CreateInput{},
			setup:   func(*domain.MockFileStorage) {},
			wantErr: domain.ErrInvalidAgentID,
		},
		{
			name:    "document too large",
			input:   CreateInput{AgentID: "a"},
			doc:     &domain.Upload{Name: "big.pdf", Size: 2048, Body: strings.NewReader("")},
			setup:   func(*domain.MockFileStorage) {},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:  "upload failure stores nothing",
			input: CreateInput{AgentID: "a"},
			doc:   &domain.Upload{Name: "a.pdf", Size: 1, Body: strings.NewReader("a")},
			setup: func(files *domain.MockFileStorage) {
				files.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(nil, uploadErr)
			},
			wantErr: uploadErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := domain.NewMockPolicyRepository(ctrl)
			files := domain.NewMockFileStorage(ctrl)
			tt.setup(files)

			_, err := NewService(repo, files, 1024).Create(context.Background(), tt.input, tt.doc)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestListRequiresAgent(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewService(domain.NewMockPolicyRepository(ctrl), nil, 0)

	if _, err := svc.List(context.Background(), ""); !errors.Is(err, domain.ErrInvalidAgentID) {
		t.Errorf("List() error = %v, want %v", err, domain.ErrInvalidAgentID)
	}
}
