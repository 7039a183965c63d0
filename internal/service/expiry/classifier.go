package expiry

import (
	"time"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

const (
	// StaleAfterDays is how far past expiry a policy stays visible.
	StaleAfterDays = -30
	// CriticalMaxDays, ModerateMaxDays and UpcomingMaxDays are the inclusive
	// upper bounds of each bucket. Policies beyond UpcomingMaxDays are hidden.
	CriticalMaxDays = 7
	ModerateMaxDays = 30
	UpcomingMaxDays = 90
)

const day = 24 * time.Hour

type Classification struct {
	DaysUntilExpiry int
	Priority        domain.Priority
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify reports the bucket of an expiry instant relative to now. The second
// result is false when the instant falls outside the visibility window.
func (c *Classifier) Classify(expiry, now time.Time) (Classification, bool) {
	days := DaysUntil(expiry, now)

	priority, ok := PriorityFor(days)
	if !ok {
		return Classification{DaysUntilExpiry: days}, false
	}

	return Classification{
		DaysUntilExpiry: days,
		Priority:        priority,
	}, true
}

// DaysUntil returns ceil((expiry - now) / 24h).
func DaysUntil(expiry, now time.Time) int {
	d := expiry.Sub(now)
	days := d / day
	// Integer division truncates toward zero, which is already the ceiling
	// for negative remainders.
	if d%day > 0 {
		days++
	}
	return int(days)
}

func PriorityFor(days int) (domain.Priority, bool) {
	switch {
	case days < StaleAfterDays:
		return "", false
	case days < 0:
		return domain.PriorityExpired, true
	case days <= CriticalMaxDays:
		return domain.PriorityCritical, true
	case days <= ModerateMaxDays:
		return domain.PriorityModerate, true
	case days <= UpcomingMaxDays:
		return domain.PriorityUpcoming, true
	default:
		return "", false
	}
}
