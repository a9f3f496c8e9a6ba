package audit

import "github.com/diewo77/compta-boucherie/internal/models"

// FieldChange is one rendered before/after row of an expanded trail entry.
type FieldChange struct {
	Field    string `json:"field"`
	Label    string `json:"label"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// NextExpanded computes the expansion state after a click: clicking the
// already-expanded entry collapses it, clicking another replaces it. The
// empty string is the collapsed state.
func NextExpanded(current, clicked string) string {
	if clicked == "" || clicked == current {
		return ""
	}
	return clicked
}

// TrailView holds the presentation state of the trail page: at most one
// entry expanded at a time. State is component-local; a new view starts
// collapsed.
type TrailView struct {
	expandedID string
}

// Toggle applies a click on an entry.
func (v *TrailView) Toggle(id string) {
	v.expandedID = NextExpanded(v.expandedID, id)
}

// ExpandedID returns the currently expanded entry id, "" when collapsed.
func (v *TrailView) ExpandedID() string { return v.expandedID }

// IsExpanded reports whether the given entry is the expanded one.
func (v *TrailView) IsExpanded(id string) bool { return id != "" && v.expandedID == id }

// DetailRows renders the per-field rows shown when an entry is expanded.
// UPDATE compares before/after for each changed field; CREATE shows every
// non-ignored new value; DELETE every non-ignored removed value. An UPDATE
// with an empty change-set yields no rows, which the page treats as a
// benign empty detail, not an error.
func DetailRows(ev AuditEntry) []FieldChange {
	var fields []string
	switch ev.Action {
	case models.ActionCreate:
		fields = ChangedFields(nil, ev.NewValues)
	case models.ActionDelete:
		fields = ChangedFields(ev.OldValues, nil)
	case models.ActionUpdate:
		fields = ChangedFields(ev.OldValues, ev.NewValues)
	default:
		return nil
	}
	rows := make([]FieldChange, 0, len(fields))
	for _, f := range fields {
		row := FieldChange{Field: f, Label: LabelFor(f), OldValue: Placeholder, NewValue: Placeholder}
		if v, ok := ev.OldValues[f]; ok {
			row.OldValue = FormatValue(f, v)
		}
		if v, ok := ev.NewValues[f]; ok {
			row.NewValue = FormatValue(f, v)
		}
		rows = append(rows, row)
	}
	return rows
}
