package audit

import (
	"reflect"
	"sort"

	"github.com/diewo77/compta-boucherie/internal/models"
)

// Bookkeeping columns present in snapshots but never surfaced as business
// fields: they must not appear in change-sets nor in detail rows.
var ignoredFields = map[string]struct{}{
	"id":          {},
	"commerce_id": {},
	"user_id":     {},
	"updated_by":  {},
	"created_at":  {},
	"updated_at":  {},
}

// IsIgnored reports whether a snapshot key is a bookkeeping column.
func IsIgnored(field string) bool {
	_, ok := ignoredFields[field]
	return ok
}

// ChangedFields computes the set of semantically changed fields between two
// row snapshots. Either side may be nil (CREATE has no old state, DELETE no
// new state); a field present on only one side is always reported. Equality
// is shallow: nested objects or arrays always count as changed, even when
// deeply equal. Output order is sorted for determinism (JSON object order
// is not observable after decoding).
func ChangedFields(oldValues, newValues models.Snapshot) []string {
	changed := []string{}
	if oldValues == nil && newValues == nil {
		return changed
	}
	keys := make([]string, 0, len(oldValues)+len(newValues))
	seen := make(map[string]struct{}, len(oldValues)+len(newValues))
	for k := range oldValues {
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for k := range newValues {
		if _, dup := seen[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if IsIgnored(k) {
			continue
		}
		ov, okOld := oldValues[k]
		nv, okNew := newValues[k]
		if okOld != okNew {
			changed = append(changed, k)
			continue
		}
		if !shallowEqual(ov, nv) {
			changed = append(changed, k)
		}
	}
	return changed
}

func shallowEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	// Non-comparable values (nested objects, arrays) are reported as changed.
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}
