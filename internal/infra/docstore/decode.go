package docstore

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/instant"
)

// Field readers tolerate the loosely typed documents written by older
// clients: numbers stored as strings, dates stored in several shapes.

func stringField(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func floatField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}

func intField(data map[string]any, key string) (int, bool) {
	switch v := data[key].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func boolField(data map[string]any, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func timeField(data map[string]any, key string) time.Time {
	t, ok := instant.Normalize(data[key])
	if !ok {
		return time.Time{}
	}
	return t
}

func mapField(data map[string]any, key string) map[string]any {
	m, _ := data[key].(map[string]any)
	return m
}

func decodePolicy(id string, data map[string]any) domain.Policy {
	p := domain.Policy{
		ID:            id,
		AgentID:       stringField(data, "agentId"),
		PolicyNumber:  stringField(data, "policyNumber"),
		PolicyType:    stringField(data, "policyType"),
		Company:       stringField(data, "company"),
		Status:        domain.PolicyStatus(stringField(data, "status")),
		StartDate:     timeField(data, "startDate"),
		ExpiryDate:    timeField(data, "expiryDate"),
		PremiumAmount: floatField(data, "premiumAmount"),
		CreatedAt:     timeField(data, "createdAt"),
	}

	if p.ExpiryDate.IsZero() {
		p.ExpiryDate = timeField(data, "endDate")
	}

	p.ReminderDaysBefore = domain.DefaultReminderDaysBefore
	if n, ok := intField(data, "reminderDaysBefore"); ok && n > 0 {
		p.ReminderDaysBefore = n
	}

	if c := mapField(data, "customer"); c != nil {
		p.Customer = domain.Customer{
			Name:  stringField(c, "name"),
			Email: stringField(c, "email"),
			Phone: stringField(c, "phone"),
		}
	} else {
		p.Customer = domain.Customer{
			Name:  stringField(data, "customerName"),
			Email: stringField(data, "customerEmail"),
			Phone: stringField(data, "customerPhone"),
		}
	}

	p.Documents = []domain.Document{}
	if docs, ok := data["documents"].([]any); ok {
		for _, raw := range docs {
			d, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			p.Documents = append(p.Documents, domain.Document{
				Type: stringField(d, "type"),
				Name: stringField(d, "name"),
				URL:  stringField(d, "url"),
			})
		}
	}

	return p
}

func encodePolicy(p *domain.Policy) map[string]any {
	docs := make([]map[string]any, 0, len(p.Documents))
	for _, d := range p.Documents {
		docs = append(docs, map[string]any{
			"type": d.Type,
			"name": d.Name,
			"url":  d.URL,
		})
	}

	data := map[string]any{
		"agentId":            p.AgentID,
		"company":            p.Company,
		"policyNumber":       p.PolicyNumber,
		"policyType":         p.PolicyType,
		"status":             p.Status.String(),
		"premiumAmount":      p.PremiumAmount,
		"reminderDaysBefore": p.ReminderDaysBefore,
		"customer": map[string]any{
			"name":  p.Customer.Name,
			"email": p.Customer.Email,
			"phone": p.Customer.Phone,
		},
		"documents": docs,
	}
	if !p.StartDate.IsZero() {
		data["startDate"] = p.StartDate
	}
	if !p.ExpiryDate.IsZero() {
		data["expiryDate"] = p.ExpiryDate
		data["endDate"] = p.ExpiryDate
	}
	return data
}

func decodeStoredAlert(id string, data map[string]any) domain.StoredAlert {
	a := domain.StoredAlert{
		ID:            id,
		PolicyID:      stringField(data, "policyId"),
		PolicyNumber:  stringField(data, "policyNumber"),
		AgentID:       stringField(data, "agentId"),
		AlertType:     stringField(data, "alertType"),
		Status:        stringField(data, "status"),
		CustomerName:  stringField(data, "customerName"),
		CustomerEmail: stringField(data, "customerEmail"),
		ExpiryDate:    timeField(data, "expiryDate"),
		SentDate:      timeField(data, "sentDate"),
		CreatedAt:     timeField(data, "createdAt"),
	}
	if p, ok := domain.ParsePriority(stringField(data, "priority")); ok {
		a.Priority = p
	}
	return a
}

func encodeStoredAlert(a *domain.StoredAlert) map[string]any {
	data := map[string]any{
		"agentId":       a.AgentID,
		"policyId":      a.PolicyID,
		"policyNumber":  a.PolicyNumber,
		"alertType":     a.AlertType,
		"status":        a.Status,
		"customerName":  a.CustomerName,
		"customerEmail": a.CustomerEmail,
	}
	if a.Priority != "" {
		data["priority"] = a.Priority.String()
	}
	if !a.ExpiryDate.IsZero() {
		data["expiryDate"] = a.ExpiryDate
	}
	if !a.SentDate.IsZero() {
		data["sentDate"] = a.SentDate
	}
	return data
}

func decodeUser(uid string, data map[string]any) domain.UserProfile {
	u := domain.UserProfile{
		UID:              stringField(data, "uid"),
		Email:            stringField(data, "email"),
		Username:         stringField(data, "username"),
		FullName:         stringField(data, "fullName"),
		Role:             stringField(data, "role"),
		ProfileCompleted: boolField(data, "profileCompleted"),
		Phone:            stringField(data, "phone"),
		Address:          stringField(data, "address"),
		City:             stringField(data, "city"),
		State:            stringField(data, "state"),
		Pincode:          stringField(data, "pincode"),
		PhotoURL:         stringField(data, "photoURL"),
		CreatedAt:        timeField(data, "createdAt"),
		UpdatedAt:        timeField(data, "updatedAt"),
	}
	if u.UID == "" {
		u.UID = uid
	}
	if u.PhotoURL == "" {
		u.PhotoURL = stringField(data, "profilePhoto")
	}
	return u
}
