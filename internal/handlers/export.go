package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/compta-boucherie/internal/httpx"
	"github.com/diewo77/compta-boucherie/internal/models"
	"github.com/diewo77/compta-boucherie/internal/services"

	"gorm.io/gorm"
)

// ExportHandler computes the monthly summary and hands it to the mailer.
type ExportHandler struct {
	DB            *gorm.DB
	Svc           *services.ExportService
	Mailer        *services.Mailer
	FallbackEmail string
}

func NewExportHandler(db *gorm.DB, svc *services.ExportService, mailer *services.Mailer, fallbackEmail string) *ExportHandler {
	return &ExportHandler{DB: db, Svc: svc, Mailer: mailer, FallbackEmail: fallbackEmail}
}

// Mensuel: POST /export/mensuel?annee=2025&mois=3
// GET with the same params returns the summary without sending it.
func (h *ExportHandler) Mensuel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	commerceID, _, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	annee, err := strconv.Atoi(r.URL.Query().Get("annee"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_year", nil)
		return
	}
	mois, err := strconv.Atoi(r.URL.Query().Get("mois"))
	if err != nil || mois < 1 || mois > 12 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_month", nil)
		return
	}
	summary, err := h.Svc.MonthlySummary(r.Context(), commerceID, annee, time.Month(mois))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_build_export", nil)
		return
	}
	if r.Method == http.MethodGet {
		httpx.JSON(w, http.StatusOK, map[string]any{"summary": summary, "sent": false})
		return
	}
	var commerce models.Commerce
	if err := h.DB.First(&commerce, commerceID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_commerce", nil)
		return
	}
	to := commerce.EmailComptable
	if to == "" {
		to = h.FallbackEmail
	}
	if err := h.Mailer.SendExport(r.Context(), to, summary); err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "failed_to_send_export", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"summary": summary, "sent": true})
}
