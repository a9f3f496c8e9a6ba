package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldKind categorizes a snapshot field for display formatting.
type FieldKind int

const (
	KindText FieldKind = iota
	KindMoney
	KindDate
	KindBool
)

// Placeholder shown for absent values.
const Placeholder = "—"

// Closed field→category table covering both audited entities. Unknown
// fields fall back to KindText, never to an error.
var fieldKinds = map[string]FieldKind{
	"montant_especes":   KindMoney,
	"montant_cheques":   KindMoney,
	"montant_cartes":    KindMoney,
	"montant_total":     KindMoney,
	"montant_ttc":       KindMoney,
	"date_encaissement": KindDate,
	"date_facture":      KindDate,
	"date_paiement":     KindDate,
	"payee":             KindBool,
}

var fieldLabels = map[string]string{
	"montant_especes":   "Montant espèces",
	"montant_cheques":   "Montant chèques",
	"montant_cartes":    "Montant cartes",
	"montant_total":     "Montant total",
	"montant_ttc":       "Montant TTC",
	"date_encaissement": "Date d'encaissement",
	"date_facture":      "Date de facture",
	"date_paiement":     "Date de paiement",
	"payee":             "Payée",
	"fournisseur":       "Fournisseur",
	"numero":            "Numéro",
	"commentaire":       "Commentaire",
}

// LabelFor returns the display label for a field, the field name itself
// when unknown.
func LabelFor(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// KindOf returns the display category of a field.
func KindOf(field string) FieldKind { return fieldKinds[field] }

// FormatValue renders a raw snapshot value as a display string. It never
// fails: unexpected types degrade to plain string coercion and unparseable
// dates pass through raw.
func FormatValue(field string, value any) string {
	if value == nil {
		return Placeholder
	}
	switch fieldKinds[field] {
	case KindMoney:
		if f, ok := toFloat(value); ok {
			return FormatEuros(f)
		}
	case KindDate:
		if s, ok := value.(string); ok {
			if t, err := parseISODate(s); err == nil {
				return t.Format("02/01/2006")
			}
			return s
		}
		if t, ok := value.(time.Time); ok {
			return t.Format("02/01/2006")
		}
	case KindBool:
		if b, ok := value.(bool); ok {
			if b {
				return "Oui"
			}
			return "Non"
		}
	}
	return fmt.Sprintf("%v", value)
}

// FormatEuros renders an amount with french grouping and decimal separator
// and a trailing euro sign, e.g. 1234.5 -> "1 234,50 €".
func FormatEuros(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	cents := int64(amount*100 + 0.5)
	digits := strconv.FormatInt(cents/100, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	out := strings.Join(groups, " ")
	if neg {
		out = "-" + out
	}
	return fmt.Sprintf("%s,%02d €", out, cents%100)
}

func parseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}
