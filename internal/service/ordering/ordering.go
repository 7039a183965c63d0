package ordering

import (
	"cmp"
	"slices"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

// tier groups records so that the comparator stays a strict weak order.
// Unsent auto records come first, then manual records that expose
// daysUntilExpiry, then manual records that were sent, then everything else.
type tier int

const (
	tierUnsentAuto tier = iota
	tierDays
	tierSent
	tierOther
)

func tierOf(v *domain.AlertView) tier {
	switch {
	case v.IsUnsentAuto():
		return tierUnsentAuto
	case v.DaysUntilExpiry != nil:
		return tierDays
	case v.SentDate != nil:
		return tierSent
	default:
		return tierOther
	}
}

// Compare orders two feed records. Within the day-bearing tiers the most
// urgent record wins; sent records are newest first; the rest compare equal.
func Compare(a, b domain.AlertView) int {
	ta, tb := tierOf(&a), tierOf(&b)
	if ta != tb {
		return cmp.Compare(ta, tb)
	}

	switch ta {
	case tierUnsentAuto, tierDays:
		if a.DaysUntilExpiry == nil || b.DaysUntilExpiry == nil {
			return 0
		}
		return cmp.Compare(*a.DaysUntilExpiry, *b.DaysUntilExpiry)
	case tierSent:
		return b.SentDate.Compare(*a.SentDate)
	default:
		return 0
	}
}

// Sort returns a sorted copy of records. Equal records keep their input order.
func Sort(records []domain.AlertView) []domain.AlertView {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []domain.AlertView{}
	}
	slices.SortStableFunc(sorted, Compare)
	return sorted
}
