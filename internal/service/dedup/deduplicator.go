package dedup

import (
	"math"
	"time"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/service/expiry"
)

// RenewalAlertMaxDays bounds the renewal branch of AlertTypeFor.
const RenewalAlertMaxDays = 15

// Result is the outcome of one merge along with the counts of policies that
// did not produce an auto record.
type Result struct {
	Items       []domain.AlertView
	Manual      int
	Auto        int
	Suppressed  int
	Inactive    int
	NoExpiry    int
	OutOfWindow int
	Collapsed   int
}

type Deduplicator struct {
	classifier *expiry.Classifier
}

func NewDeduplicator(classifier *expiry.Classifier) *Deduplicator {
	if classifier == nil {
		panic("dedup: nil classifier")
	}
	return &Deduplicator{classifier: classifier}
}

// Merge returns stored records followed by the auto records that survive
// deduplication, in input order.
func (d *Deduplicator) Merge(stored []domain.StoredAlert, policies []domain.Policy, now time.Time) []domain.AlertView {
	return d.Reconcile(stored, policies, now).Items
}

func (d *Deduplicator) Reconcile(stored []domain.StoredAlert, policies []domain.Policy, now time.Time) Result {
	return d.ReconcileDispatched(stored, nil, policies, now)
}

// ReconcileDispatched is Reconcile with an extra set of already dispatched
// records. They suppress auto records for the policies they name but are not
// listed themselves.
func (d *Deduplicator) ReconcileDispatched(stored, dispatched []domain.StoredAlert, policies []domain.Policy, now time.Time) Result {
	result := Result{
		Items: make([]domain.AlertView, 0, len(stored)+len(policies)),
	}

	index := newKeyIndex()
	for i := range stored {
		record := &stored[i]
		if !index.add(record.Key()) {
			result.Collapsed++
			continue
		}
		result.Items = append(result.Items, manualView(record))
		result.Manual++
	}

	sent := newKeyIndex()
	for i := range dispatched {
		sent.add(dispatched[i].Key())
	}

	for i := range policies {
		policy := &policies[i]

		if !policy.Status.IsActive() {
			result.Inactive++
			continue
		}
		if !policy.HasExpiry() {
			result.NoExpiry++
			continue
		}

		classification, visible := d.classifier.Classify(policy.ExpiryDate, now)
		if !visible {
			result.OutOfWindow++
			continue
		}

		if index.covers(policy) || sent.covers(policy) {
			result.Suppressed++
			continue
		}

		result.Items = append(result.Items, autoView(policy, classification))
		result.Auto++
	}

	return result
}

// AlertTypeFor picks the alert type of an auto record. Its thresholds differ
// from the priority buckets.
func AlertTypeFor(days int) string {
	switch {
	case days < 0:
		return domain.AlertTypeExpiry
	case days <= expiry.CriticalMaxDays:
		return domain.AlertTypeExpiry
	case days <= RenewalAlertMaxDays:
		return domain.AlertTypeRenewal
	default:
		return domain.AlertTypeRenewal
	}
}

func manualView(record *domain.StoredAlert) domain.AlertView {
	view := domain.AlertView{
		ID:            record.ID,
		PolicyID:      optionalString(record.PolicyID),
		PolicyNumber:  record.PolicyNumber,
		CustomerName:  record.CustomerName,
		CustomerEmail: record.CustomerEmail,
		AlertType:     record.AlertType,
		Status:        record.Status,
		Priority:      record.Priority,
		Source:        domain.SourceManual,
	}
	if !record.SentDate.IsZero() {
		sent := record.SentDate
		view.SentDate = &sent
	}
	if !record.ExpiryDate.IsZero() {
		exp := record.ExpiryDate
		view.ExpiryDate = &exp
	}
	return view
}

func autoView(policy *domain.Policy, c expiry.Classification) domain.AlertView {
	days := c.DaysUntilExpiry
	exp := policy.ExpiryDate
	return domain.AlertView{
		PolicyID:        optionalString(policy.ID),
		PolicyNumber:    policy.PolicyNumber,
		PolicyType:      policy.PolicyType,
		PremiumAmount:   finiteOrZero(policy.PremiumAmount),
		CustomerName:    policy.Customer.Name,
		CustomerEmail:   policy.Customer.Email,
		AlertType:       AlertTypeFor(days),
		Status:          domain.AlertStatusPending,
		Priority:        c.Priority,
		DaysUntilExpiry: &days,
		ExpiryDate:      &exp,
		Source:          domain.SourceAuto,
	}
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
