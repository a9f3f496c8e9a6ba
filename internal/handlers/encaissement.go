package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/compta-boucherie/internal/audit"
	"github.com/diewo77/compta-boucherie/internal/httpx"
	"github.com/diewo77/compta-boucherie/internal/models"
	"github.com/diewo77/compta-boucherie/internal/validation"

	"gorm.io/gorm"
)

type EncaissementHandler struct {
	DB  *gorm.DB
	Rec *audit.Recorder
}

func NewEncaissementHandler(db *gorm.DB) *EncaissementHandler {
	return &EncaissementHandler{DB: db, Rec: audit.NewRecorder()}
}

type encaissementReq struct {
	DateEncaissement string   `json:"date_encaissement"`
	MontantEspeces   *float64 `json:"montant_especes"`
	MontantCheques   *float64 `json:"montant_cheques"`
	MontantCartes    *float64 `json:"montant_cartes"`
	Commentaire      *string  `json:"commentaire"`
}

// List: GET /encaissements – newest first, optional du/au date bounds.
func (h *EncaissementHandler) List(w http.ResponseWriter, r *http.Request) {
	commerceID, _, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r)
	dbq := h.DB.Where("commerce_id = ?", commerceID)
	if du := r.URL.Query().Get("du"); du != "" {
		v := validation.Violations{}
		if t := validation.ISODate("du", du, v); v.Empty() {
			dbq = dbq.Where("date_encaissement >= ?", t)
		}
	}
	if au := r.URL.Query().Get("au"); au != "" {
		v := validation.Violations{}
		if t := validation.ISODate("au", au, v); v.Empty() {
			dbq = dbq.Where("date_encaissement <= ?", t)
		}
	}
	var total int64
	dbq.Model(&models.Encaissement{}).Count(&total)
	var rows []models.Encaissement
	if err := dbq.Order("date_encaissement desc, id desc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_encaissements", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": total, "limit": limit, "offset": offset})
}

// Create: POST /encaissements
func (h *EncaissementHandler) Create(w http.ResponseWriter, r *http.Request) {
	commerceID, userID, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	var req encaissementReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("date_encaissement", req.DateEncaissement, v)
	date := validation.ISODate("date_encaissement", req.DateEncaissement, v)
	row := models.Encaissement{CommerceID: commerceID, DateEncaissement: date}
	if req.MontantEspeces != nil {
		row.MontantEspeces = *req.MontantEspeces
	}
	if req.MontantCheques != nil {
		row.MontantCheques = *req.MontantCheques
	}
	if req.MontantCartes != nil {
		row.MontantCartes = *req.MontantCartes
	}
	if req.Commentaire != nil {
		row.Commentaire = *req.Commentaire
	}
	validation.NonNegativeFloat("montant_especes", row.MontantEspeces, v)
	validation.NonNegativeFloat("montant_cheques", row.MontantCheques, v)
	validation.NonNegativeFloat("montant_cartes", row.MontantCartes, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	row.ComputeTotal()
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		snap, err := audit.SnapshotOf(&row)
		if err != nil {
			return err
		}
		return h.Rec.Record(tx, commerceID, userID, models.TableEncaissements, row.ID, models.ActionCreate, nil, snap)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_encaissement", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, row)
}

// Update: POST /encaissements/update?id=...
func (h *EncaissementHandler) Update(w http.ResponseWriter, r *http.Request) {
	commerceID, userID, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var row models.Encaissement
	if err := h.DB.Where("commerce_id = ?", commerceID).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_encaissement", nil)
		return
	}
	oldSnap, err := audit.SnapshotOf(&row)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	var req encaissementReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if req.DateEncaissement != "" {
		row.DateEncaissement = validation.ISODate("date_encaissement", req.DateEncaissement, v)
	}
	if req.MontantEspeces != nil {
		row.MontantEspeces = *req.MontantEspeces
	}
	if req.MontantCheques != nil {
		row.MontantCheques = *req.MontantCheques
	}
	if req.MontantCartes != nil {
		row.MontantCartes = *req.MontantCartes
	}
	if req.Commentaire != nil {
		row.Commentaire = *req.Commentaire
	}
	validation.NonNegativeFloat("montant_especes", row.MontantEspeces, v)
	validation.NonNegativeFloat("montant_cheques", row.MontantCheques, v)
	validation.NonNegativeFloat("montant_cartes", row.MontantCartes, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	row.ComputeTotal()
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		newSnap, err := audit.SnapshotOf(&row)
		if err != nil {
			return err
		}
		return h.Rec.Record(tx, commerceID, userID, models.TableEncaissements, row.ID, models.ActionUpdate, oldSnap, newSnap)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_encaissement", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}

// Delete: POST /encaissements/delete?id=...
func (h *EncaissementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commerceID, userID, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var row models.Encaissement
	if err := h.DB.Where("commerce_id = ?", commerceID).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_encaissement", nil)
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
		return h.Rec.Record(tx, commerceID, userID, models.TableEncaissements, row.ID, models.ActionDelete, oldSnap, nil)
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_encaissement", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
