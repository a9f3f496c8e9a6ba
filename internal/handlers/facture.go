package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/diewo77/compta-boucherie/internal/audit"
	"github.com/diewo77/compta-boucherie/internal/httpx"
	"github.com/diewo77/compta-boucherie/internal/models"
	"github.com/diewo77/compta-boucherie/internal/validation"

	"gorm.io/gorm"
)

type FactureHandler struct {
	DB  *gorm.DB
	Rec *audit.Recorder
}

func NewFactureHandler(db *gorm.DB) *FactureHandler {
	return &FactureHandler{DB: db, Rec: audit.NewRecorder()}
}

type factureReq struct {
	Fournisseur  *string  `json:"fournisseur"`
	Numero       *string  `json:"numero"`
	DateFacture  string   `json:"date_facture"`
	MontantTTC   *float64 `json:"montant_ttc"`
	Payee        *bool    `json:"payee"`
	DatePaiement *string  `json:"date_paiement"`
	Commentaire  *string  `json:"commentaire"`
}

// List: GET /factures – newest first, optional fournisseur and payee filters.
func (h *FactureHandler) List(w http.ResponseWriter, r *http.Request) {
	commerceID, _, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r)
	dbq := h.DB.Where("commerce_id = ?", commerceID)
	if f := r.URL.Query().Get("fournisseur"); f != "" {
		dbq = dbq.Where("fournisseur = ?", f)
	}
	if p := r.URL.Query().Get("payee"); p == "true" || p == "false" {
		dbq = dbq.Where("payee = ?", p == "true")
	}
	var total int64
	dbq.Model(&models.Facture{}).Count(&total)
	var rows []models.Facture
	if err := dbq.Order("date_facture desc, id desc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_factures", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": total, "limit": limit, "offset": offset})
}

// Create: POST /factures
func (h *FactureHandler) Create(w http.ResponseWriter, r *http.Request) {
	commerceID, userID, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	var req factureReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	row := models.Facture{CommerceID: commerceID}
	if req.Fournisseur != nil {
		row.Fournisseur = *req.Fournisseur
	}
	if req.Numero != nil {
		row.Numero = *req.Numero
	}
	if req.Commentaire != nil {
		row.Commentaire = *req.Commentaire
	}
	if req.MontantTTC != nil {
		row.MontantTTC = *req.MontantTTC
	}
	validation.Required("fournisseur", row.Fournisseur, v)
	validation.Required("date_facture", req.DateFacture, v)
	row.DateFacture = validation.ISODate("date_facture", req.DateFacture, v)
	validation.PositiveFloat("montant_ttc", row.MontantTTC, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		snap, err := audit.SnapshotOf(&row)
		if err != nil {
			return err
		}
		return h.Rec.Record(tx, commerceID, userID, models.TableFactures, row.ID, models.ActionCreate, nil, snap)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_facture", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, row)
}

// Update: POST /factures/update?id=...
func (h *FactureHandler) Update(w http.ResponseWriter, r *http.Request) {
	commerceID, userID, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var row models.Facture
	if err := h.DB.Where("commerce_id = ?", commerceID).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_facture", nil)
		return
	}
	oldSnap, err := audit.SnapshotOf(&row)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	var req factureReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if req.Fournisseur != nil {
		row.Fournisseur = *req.Fournisseur
	}
	if req.Numero != nil {
		row.Numero = *req.Numero
	}
	if req.Commentaire != nil {
		row.Commentaire = *req.Commentaire
	}
	if req.MontantTTC != nil {
		row.MontantTTC = *req.MontantTTC
	}
	if req.DateFacture != "" {
		row.DateFacture = validation.ISODate("date_facture", req.DateFacture, v)
	}
	if req.Payee != nil {
		row.Payee = *req.Payee
		if !row.Payee {
			row.DatePaiement = nil
		}
	}
	if req.DatePaiement != nil {
		t := validation.ISODate("date_paiement", *req.DatePaiement, v)
		row.DatePaiement = &t
	}
	validation.Required("fournisseur", row.Fournisseur, v)
	validation.PositiveFloat("montant_ttc", row.MontantTTC, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		newSnap, err := audit.SnapshotOf(&row)
		if err != nil {
			return err
		}
		return h.Rec.Record(tx, commerceID, userID, models.TableFactures, row.ID, models.ActionUpdate, oldSnap, newSnap)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_facture", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}

// Payer: POST /factures/payer?id=... marks an invoice paid today.
func (h *FactureHandler) Payer(w http.ResponseWriter, r *http.Request) {
	commerceID, userID, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var row models.Facture
	if err := h.DB.Where("commerce_id = ?", commerceID).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_facture", nil)
		return
	}
	if row.Payee {
		httpx.JSON(w, http.StatusOK, row)
		return
	}
	oldSnap, err := audit.SnapshotOf(&row)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	// Truncate would round against the Unix epoch and shift evening clicks
	// to the previous day; build the calendar date explicitly.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	row.Payee = true
	row.DatePaiement = &today
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		newSnap, err := audit.SnapshotOf(&row)
		if err != nil {
			return err
		}
		return h.Rec.Record(tx, commerceID, userID, models.TableFactures, row.ID, models.ActionUpdate, oldSnap, newSnap)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_facture", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}

// Delete: POST /factures/delete?id=...
func (h *FactureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commerceID, userID, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var row models.Facture
	if err := h.DB.Where("commerce_id = ?", commerceID).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_facture", nil)
		return
	}
	oldSnap, err := audit.SnapshotOf(&row)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}
		return h.Rec.Record(tx, commerceID, userID, models.TableFactures, row.ID, models.ActionDelete, oldSnap, nil)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_facture", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
