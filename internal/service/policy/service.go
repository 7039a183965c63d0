package policy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

// CreateInput is a new policy as submitted by an agent. Zero values are
// replaced by the defaults in Create.
type CreateInput struct {
	AgentID            string
	PolicyNumber       string
	PolicyType         string
	Company            string
	Status             domain.PolicyStatus
	Customer           domain.Customer
	StartDate          time.Time
	ExpiryDate         time.Time
	PremiumAmount      float64
	ReminderDaysBefore int
	DocumentType       string
}

type CreateResult struct {
	PolicyID string
	FileLink string
}

type Service struct {
	policyRepo       domain.PolicyRepository
	files            domain.FileStorage
	maxDocumentBytes int64
}

func NewService(policyRepo domain.PolicyRepository, files domain.FileStorage, maxDocumentBytes int64) *Service {
	return &Service{
		policyRepo:       policyRepo,
		files:            files,
		maxDocumentBytes: maxDocumentBytes,
	}
}

func (s *Service) List(ctx context.Context, agentID string) ([]domain.Policy, error) {
	if agentID == "" {
		return nil, domain.ErrInvalidAgentID
	}
	return s.policyRepo.ListByAgent(ctx, agentID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Policy, error) {
	return s.policyRepo.Get(ctx, id)
}

// Create uploads the attached document, if any, and stores the policy with
// a link to it. A failed upload stores nothing.
func (s *Service) Create(ctx context.Context, input CreateInput, document *domain.Upload) (*CreateResult, error) {
	if input.AgentID == "" {
		return nil, domain.ErrInvalidAgentID
	}

	policy := &domain.Policy{
		AgentID:            input.AgentID,
		PolicyNumber:       input.PolicyNumber,
		PolicyType:         input.PolicyType,
		Company:            input.Company,
		Status:             input.Status,
		StartDate:          input.StartDate,
		ExpiryDate:         input.ExpiryDate,
		PremiumAmount:      input.PremiumAmount,
		ReminderDaysBefore: input.ReminderDaysBefore,
		Customer:           input.Customer,
		Documents:          []domain.Document{},
	}
	if policy.Status == "" {
		policy.Status = domain.PolicyStatusActive
	}
	if policy.ReminderDaysBefore <= 0 {
		policy.ReminderDaysBefore = domain.DefaultReminderDaysBefore
	}

	result := &CreateResult{}

	if document != nil {
		if s.maxDocumentBytes > 0 && document.Size > s.maxDocumentBytes {
			return nil, domain.ErrFileTooLarge
		}

		stored, err := s.files.Upload(ctx, document)
		if err != nil {
			return nil, fmt.Errorf("failed to upload policy document: %w", err)
		}

		docType := input.DocumentType
		if docType == "" {
			docType = domain.DefaultDocumentType
		}
		result.FileLink = stored.Link()
		policy.Documents = append(policy.Documents, domain.Document{
			Type: docType,
			Name: document.Name,
			URL:  result.FileLink,
		})
	}

	id, err := s.policyRepo.Create(ctx, policy)
	if err != nil {
		return nil, err
	}
	result.PolicyID = id

	slog.InfoContext(ctx, "policy created",
		slog.String("event", "policy.create.success"),
		slog.String("policy_id", id),
		slog.String("agent_id", input.AgentID),
		slog.Bool("has_document", document != nil),
	)

	return result, nil
}
