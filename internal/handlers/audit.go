package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/compta-boucherie/internal/audit"
	"github.com/diewo77/compta-boucherie/internal/httpx"
	"github.com/diewo77/compta-boucherie/internal/i18n"
	"github.com/diewo77/compta-boucherie/internal/models"
)

// AuditHandler serves the traçabilité page data: the filtered event list
// plus the detail rows of the (at most one) expanded entry.
type AuditHandler struct {
	Svc *audit.TrailService
}

func NewAuditHandler(svc *audit.TrailService) *AuditHandler { return &AuditHandler{Svc: svc} }

func validTable(t string) bool {
	return t == "" || t == models.TableEncaissements || t == models.TableFactures
}

func validAction(a string) bool {
	return a == "" || a == models.ActionCreate || a == models.ActionUpdate || a == models.ActionDelete
}

// auditItem decorates a trail entry with the display labels the page shows
// for its action and table columns.
type auditItem struct {
	audit.AuditEntry
	ActionLabel string `json:"action_label"`
	TableLabel  string `json:"table_label"`
}

// List: GET /audit?table=&action=&expanded=&toggle=
// `expanded` carries the client's current expansion state; `toggle`, when
// present, is the entry that was clicked. The response echoes the resulting
// state so the client stays on a single-expanded-entry model.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	commerceID, _, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	table := q.Get("table")
	action := q.Get("action")
	if !validTable(table) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_table_filter", nil)
		return
	}
	if !validAction(action) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_action_filter", nil)
		return
	}
	entries, err := h.Svc.Fetch(r.Context(), commerceID, audit.Filters{Table: table, Action: action})
	if err != nil {
		// no retry here: the client surfaces a failed-load state and the
		// user refreshes manually
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_trail", nil)
		return
	}
	lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	items := make([]auditItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, auditItem{
			AuditEntry:  e,
			ActionLabel: i18n.T(lang, "action_"+strings.ToLower(e.Action)),
			TableLabel:  i18n.T(lang, "table_"+e.TableName),
		})
	}
	expanded := q.Get("expanded")
	if _, hasToggle := q["toggle"]; hasToggle {
		expanded = audit.NextExpanded(expanded, q.Get("toggle"))
	}
	var changes []audit.FieldChange
	message := ""
	if expanded != "" {
		found := false
		for _, e := range entries {
			if e.ID == expanded {
				changes = audit.DetailRows(e)
				found = true
				break
			}
		}
		if !found {
			// stale id (filter change, newer data): collapse
			expanded = ""
		} else if len(changes) == 0 {
			// benign empty detail, e.g. an update that only moved bookkeeping
			message = i18n.T(lang, "no_changes")
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"expanded": expanded,
		"changes":  changes,
		"message":  message,
	})
}
