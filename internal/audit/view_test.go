package audit

import (
	"testing"

	"github.com/diewo77/compta-boucherie/internal/models"
)

func TestTrailViewSingleExpansion(t *testing.T) {
	var v TrailView
	if v.ExpandedID() != "" {
		t.Fatalf("new view must start collapsed")
	}
	v.Toggle("A")
	if !v.IsExpanded("A") {
		t.Fatalf("expected A expanded")
	}
	// expanding B collapses A: only one entry expanded at any time
	v.Toggle("B")
	if v.IsExpanded("A") || !v.IsExpanded("B") {
		t.Fatalf("expected only B expanded, got %q", v.ExpandedID())
	}
	// clicking the expanded entry collapses it
	v.Toggle("B")
	if v.ExpandedID() != "" {
		t.Fatalf("expected collapsed, got %q", v.ExpandedID())
	}
}

func TestNextExpanded(t *testing.T) {
	if NextExpanded("", "A") != "A" {
		t.Fatalf("expected A")
	}
	if NextExpanded("A", "A") != "" {
		t.Fatalf("expected collapse")
	}
	if NextExpanded("A", "B") != "B" {
		t.Fatalf("expected B")
	}
	if NextExpanded("A", "") != "" {
		t.Fatalf("expected collapse on empty click")
	}
}

func TestDetailRowsUpdate(t *testing.T) {
	ev := AuditEntry{
		Action:    models.ActionUpdate,
		OldValues: models.Snapshot{"montant_ttc": 100.0, "fournisseur": "Metro", "updated_at": "t1"},
		NewValues: models.Snapshot{"montant_ttc": 120.5, "fournisseur": "Metro", "updated_at": "t2"},
	}
	rows := DetailRows(ev)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row got %d", len(rows))
	}
	r := rows[0]
	if r.Field != "montant_ttc" || r.Label != "Montant TTC" {
		t.Fatalf("unexpected row %+v", r)
	}
	if r.OldValue != "100,00 €" || r.NewValue != "120,50 €" {
		t.Fatalf("unexpected values %+v", r)
	}
}

func TestDetailRowsNoopUpdate(t *testing.T) {
	// an audit row can exist for an update whose only difference is
	// bookkeeping; the expanded entry then shows nothing, which is benign
	ev := AuditEntry{
		Action:    models.ActionUpdate,
		OldValues: models.Snapshot{"montant_total": 100.0, "updated_at": "t1"},
		NewValues: models.Snapshot{"montant_total": 100.0, "updated_at": "t2"},
	}
	if rows := DetailRows(ev); len(rows) != 0 {
		t.Fatalf("expected no rows got %v", rows)
	}
}

func TestDetailRowsCreate(t *testing.T) {
	ev := AuditEntry{
		Action:    models.ActionCreate,
		NewValues: models.Snapshot{"fournisseur": "Metro", "montant_ttc": 50.0, "id": 1.0, "commerce_id": 2.0},
	}
	rows := DetailRows(ev)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	for _, r := range rows {
		if r.OldValue != Placeholder {
			t.Fatalf("create rows have no prior value: %+v", r)
		}
		if r.NewValue == Placeholder {
			t.Fatalf("create rows must show the new value: %+v", r)
		}
	}
}

func TestDetailRowsDelete(t *testing.T) {
	ev := AuditEntry{
		Action:    models.ActionDelete,
		OldValues: models.Snapshot{"produit": "terrine", "montant_ttc": 50.0},
	}
	rows := DetailRows(ev)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	for _, r := range rows {
		if r.NewValue != Placeholder {
			t.Fatalf("delete rows have no new value: %+v", r)
		}
	}
}

func TestDetailRowsUnknownAction(t *testing.T) {
	if rows := DetailRows(AuditEntry{Action: "TRUNCATE"}); rows != nil {
		t.Fatalf("expected nil rows got %v", rows)
	}
}
