package feed

import "github.com/KasumiMercury/policy-hub/internal/domain"

type AlertSummary struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
	Auto    int `json:"auto"`
}

type ReminderSummary struct {
	Critical int `json:"critical"`
	Moderate int `json:"moderate"`
	Upcoming int `json:"upcoming"`
	Expired  int `json:"expired"`
	Total    int `json:"total"`
}

type AlertFeed struct {
	Items   []domain.AlertView `json:"items"`
	Summary AlertSummary       `json:"summary"`
}

// ReminderFeed carries the items matching the requested priority. Summary
// always counts the whole feed so the bucket totals do not depend on the
// filter.
type ReminderFeed struct {
	Items   []domain.AlertView `json:"items"`
	Summary ReminderSummary    `json:"summary"`
}
