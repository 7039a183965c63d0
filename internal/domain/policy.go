package domain

import "time"

// PolicyStatus is the lifecycle state of an insurance policy.
type PolicyStatus string

const (
	PolicyStatusActive  PolicyStatus = "Active"
	PolicyStatusExpired PolicyStatus = "Expired"
	PolicyStatusLapsed  PolicyStatus = "Lapsed"
	PolicyStatusPending PolicyStatus = "Pending"
)

// DefaultReminderDaysBefore is applied when a policy carries no override.
const DefaultReminderDaysBefore = 15

const DefaultDocumentType = "Policy Document"

func (s PolicyStatus) String() string {
	return string(s)
}

func (s PolicyStatus) IsActive() bool {
	return s == PolicyStatusActive
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Document struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Policy is an insurance contract owned by one agent.
// ExpiryDate is zero when the stored value was absent or could not be parsed.
type Policy struct {
	ID                 string       `json:"id"`
	AgentID            string       `json:"agentId"`
	PolicyNumber       string       `json:"policyNumber"`
	PolicyType         string       `json:"policyType"`
	Company            string       `json:"company"`
	Status             PolicyStatus `json:"status"`
	StartDate          time.Time    `json:"startDate,omitzero"`
	ExpiryDate         time.Time    `json:"expiryDate,omitzero"`
	PremiumAmount      float64      `json:"premiumAmount"`
	ReminderDaysBefore int          `json:"reminderDaysBefore"`
	Customer           Customer     `json:"customer"`
	Documents          []Document   `json:"documents"`
	CreatedAt          time.Time    `json:"createdAt,omitzero"`
}

func (p *Policy) HasExpiry() bool {
	return !p.ExpiryDate.IsZero()
}
