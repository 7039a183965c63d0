package dedup

import "github.com/KasumiMercury/policy-hub/internal/domain"

// keyIndex tracks which stored records have been seen. Records keyed by
// policy ID and records keyed only by policy number live in separate sets so
// that a policy number never matches a record that carries a policy ID.
type keyIndex struct {
	policyIDs     map[string]struct{}
	policyNumbers map[string]struct{}
}

func newKeyIndex() *keyIndex {
	return &keyIndex{
		policyIDs:     make(map[string]struct{}),
		policyNumbers: make(map[string]struct{}),
	}
}

// add records key and reports whether it was new. Keyless records are always
// new.
func (k *keyIndex) add(key domain.DedupKey) bool {
	if key.IsZero() {
		return true
	}

	value, isPolicyID := key.Primary()
	set := k.policyNumbers
	if isPolicyID {
		set = k.policyIDs
	}

	if _, exists := set[value]; exists {
		return false
	}
	set[value] = struct{}{}
	return true
}

func (k *keyIndex) covers(policy *domain.Policy) bool {
	if policy.ID != "" {
		if _, ok := k.policyIDs[policy.ID]; ok {
			return true
		}
	}
	if policy.PolicyNumber != "" {
		if _, ok := k.policyNumbers[policy.PolicyNumber]; ok {
			return true
		}
	}
	return false
}
