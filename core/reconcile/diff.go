package reconcile

import (
	"cmp"
	"slices"
)

// Diff compares two keyed snapshots and returns the inserted, updated and deleted keys.
// Values are compared with equal, so callers decide which fields take part.
// The result does not depend on map iteration order.
func Diff[K cmp.Ordered, V any](prev, cur map[K]V, equal func(a, b V) bool) Changes[K] {
	changes := Changes[K]{
		Inserted: []K{},
		Updated:  []K{},
		Deleted:  []K{},
	}

	for key, value := range cur {
		old, exists := prev[key]
		if !exists {
			changes.Inserted = append(changes.Inserted, key)
			continue
		}
		if !equal(old, value) {
			changes.Updated = append(changes.Updated, key)
		}
	}

	for key := range prev {
		if _, exists := cur[key]; !exists {
			changes.Deleted = append(changes.Deleted, key)
		}
	}

	slices.Sort(changes.Inserted)
	slices.Sort(changes.Updated)
	slices.Sort(changes.Deleted)

	return changes
}
