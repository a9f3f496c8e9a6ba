package i18n

import "strings"

// Default language is French; English is the only secondary language.
const defaultLang = "fr"

var translations = map[string]map[string]string{
	"fr": {
		"required": "Requis",
		"must_be_positive": "Doit être positif",
		"out_of_range": "Hors limites",
		"invalid_date": "Date invalide",
		"unauthorized": "Non autorisé",
		"not_found": "Introuvable",
		"export_subject": "Export comptable mensuel",
		"no_changes": "Aucune modification détectée",
		"action_create": "Création",
		"action_update": "Modification",
		"action_delete": "Suppression",
		"table_encaissements": "Encaissement",
		"table_factures": "Facture",
	},
	"en": {
		"required": "Required",
		"must_be_positive": "Must be positive",
		"out_of_range": "Out of range",
		"invalid_date": "Invalid date",
		"unauthorized": "Unauthorized",
		"not_found": "Not found",
		"export_subject": "Monthly accounting export",
		"no_changes": "No changes detected",
		"action_create": "Created",
		"action_update": "Updated",
		"action_delete": "Deleted",
		"table_encaissements": "Cash receipt",
		"table_factures": "Invoice",
	},
}

// DetectLanguage picks a supported language from an Accept-Language header.
// Anything that is not english falls back to french.
func DetectLanguage(acceptLanguage string) string {
	al := strings.ToLower(strings.TrimSpace(acceptLanguage))
	if strings.HasPrefix(al, "en") {
		return "en"
	}
	return defaultLang
}

// T translates a message code. Unknown languages fall back to french;
// unknown codes fall back to the code itself so callers never get "".
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if v, ok := m[code]; ok {
			return v
		}
	}
	if v, ok := translations[defaultLang][code]; ok {
		return v
	}
	return code
}
