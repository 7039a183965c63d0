package domain

import "time"

// Priority is the urgency bucket derived from days until expiry.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityModerate Priority = "Moderate"
	PriorityUpcoming Priority = "Upcoming"
	PriorityExpired  Priority = "Expired"
)

func (p Priority) String() string {
	return string(p)
}

// ParsePriority accepts the bucket names case-insensitively. An empty value or
// "All Priorities" yields the zero Priority, meaning no filter.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "", "all", "All", "All Priorities":
		return "", true
	case "critical", "Critical":
		return PriorityCritical, true
	case "moderate", "Moderate":
		return PriorityModerate, true
	case "upcoming", "Upcoming":
		return PriorityUpcoming, true
	case "expired", "Expired":
		return PriorityExpired, true
	}
	return "", false
}

// Source tells whether a feed record was persisted or synthesized.
type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
)

const (
	AlertTypeExpiry  = "Expiry Alert"
	AlertTypeRenewal = "Renewal Alert"
)

const (
	AlertStatusSent    = "Sent"
	AlertStatusPending = "Pending"
	AlertStatusFailed  = "Failed"
)

// FeedKind names the collection a feed is built from.
type FeedKind string

const (
	FeedKindAlerts    FeedKind = "alerts"
	FeedKindReminders FeedKind = "reminders"
)

func (k FeedKind) String() string {
	return string(k)
}

// StoredAlert is a manually created alert or reminder record.
// Priority and ExpiryDate are only populated for reminder documents.
type StoredAlert struct {
	ID            string
	PolicyID      string
	PolicyNumber  string
	AgentID       string
	AlertType     string
	Status        string
	CustomerName  string
	CustomerEmail string
	Priority      Priority
	ExpiryDate    time.Time
	SentDate      time.Time
	CreatedAt     time.Time
}

func (a *StoredAlert) Key() DedupKey {
	return DedupKey{PolicyID: a.PolicyID, PolicyNumber: a.PolicyNumber}
}

// DedupKey joins stored records to policies. PolicyID takes precedence;
// PolicyNumber is only consulted when PolicyID is empty.
type DedupKey struct {
	PolicyID     string
	PolicyNumber string
}

func (k DedupKey) IsZero() bool {
	return k.PolicyID == "" && k.PolicyNumber == ""
}

// Primary returns the field that identifies the record and whether it is a
// policy ID (true) or a policy number (false).
func (k DedupKey) Primary() (string, bool) {
	if k.PolicyID != "" {
		return k.PolicyID, true
	}
	return k.PolicyNumber, false
}

// AlertView is one entry of a merged feed as returned to the agent.
type AlertView struct {
	ID              string     `json:"id,omitempty"`
	PolicyID        *string    `json:"policyId"`
	PolicyNumber    string     `json:"policyNumber"`
	PolicyType      string     `json:"policyType,omitempty"`
	PremiumAmount   float64    `json:"premiumAmount,omitempty"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail"`
	AlertType       string     `json:"alertType,omitempty"`
	Status          string     `json:"status,omitempty"`
	Priority        Priority   `json:"priority,omitempty"`
	DaysUntilExpiry *int       `json:"daysUntilExpiry"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty"`
	SentDate        *time.Time `json:"sentDate,omitempty"`
	Source          Source     `json:"source"`
}

func (v *AlertView) IsUnsentAuto() bool {
	return v.Source == SourceAuto && v.SentDate == nil
}
