package audit

import (
	"strings"
	"testing"
)

func TestLabelFor(t *testing.T) {
	if LabelFor("montant_ttc") != "Montant TTC" {
		t.Fatalf("expected label for montant_ttc")
	}
	// unknown names pass through unchanged
	if LabelFor("champ_inconnu") != "champ_inconnu" {
		t.Fatalf("expected identity fallback")
	}
}

func TestFormatValueNil(t *testing.T) {
	if got := FormatValue("montant_ttc", nil); got != Placeholder {
		t.Fatalf("expected placeholder got %q", got)
	}
}

func TestFormatValueMoney(t *testing.T) {
	got := FormatValue("montant_ttc", 1234.5)
	if !strings.Contains(got, "1 234,50") {
		t.Fatalf("expected french grouping in %q", got)
	}
	if !strings.HasSuffix(got, "€") {
		t.Fatalf("expected trailing euro sign in %q", got)
	}
	if got := FormatValue("montant_especes", 0.0); got != "0,00 €" {
		t.Fatalf("expected 0,00 € got %q", got)
	}
	if got := FormatValue("montant_total", -42.0); got != "-42,00 €" {
		t.Fatalf("expected -42,00 € got %q", got)
	}
	if got := FormatValue("montant_ttc", 1234567.89); got != "1 234 567,89 €" {
		t.Fatalf("expected 1 234 567,89 € got %q", got)
	}
}

func TestFormatValueDate(t *testing.T) {
	if got := FormatValue("date_facture", "2025-03-07"); got != "07/03/2025" {
		t.Fatalf("expected 07/03/2025 got %q", got)
	}
	if got := FormatValue("date_encaissement", "2025-03-07T00:00:00Z"); got != "07/03/2025" {
		t.Fatalf("expected 07/03/2025 got %q", got)
	}
	// unparseable dates fall back to the raw input
	if got := FormatValue("date_facture", "pas-une-date"); got != "pas-une-date" {
		t.Fatalf("expected raw passthrough got %q", got)
	}
}

func TestFormatValueBool(t *testing.T) {
	if got := FormatValue("payee", true); got != "Oui" {
		t.Fatalf("expected Oui got %q", got)
	}
	if got := FormatValue("payee", false); got != "Non" {
		t.Fatalf("expected Non got %q", got)
	}
}

func TestFormatValueNeverPanics(t *testing.T) {
	inputs := []any{nil, "abc", 12, 12.5, true, []any{1, 2}, map[string]any{"a": 1}, struct{ X int }{1}}
	fields := []string{"montant_ttc", "date_facture", "payee", "commentaire", "inconnu"}
	for _, f := range fields {
		for _, in := range inputs {
			if got := FormatValue(f, in); got == "" {
				t.Fatalf("expected displayable string for field=%s input=%#v", f, in)
			}
		}
	}
}

func TestFormatValueUnexpectedTypeCoerces(t *testing.T) {
	// a money field holding a string degrades to coercion, never an error
	if got := FormatValue("montant_ttc", "n/a"); got != "n/a" {
		t.Fatalf("expected raw coercion got %q", got)
	}
}
