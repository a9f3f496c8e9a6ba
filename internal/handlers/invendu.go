package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/compta-boucherie/internal/httpx"
	"github.com/diewo77/compta-boucherie/internal/models"
	"github.com/diewo77/compta-boucherie/internal/validation"

	"gorm.io/gorm"
)

// InvenduHandler tracks unsold goods. Invendus are not part of the audited
// tables, so writes go through without trail rows.
type InvenduHandler struct{ DB *gorm.DB }

func NewInvenduHandler(db *gorm.DB) *InvenduHandler { return &InvenduHandler{DB: db} }

type invenduReq struct {
	DateInvendu string   `json:"date_invendu"`
	Produit     *string  `json:"produit"`
	Quantite    *float64 `json:"quantite"`
	Valeur      *float64 `json:"valeur"`
}

// List: GET /invendus
func (h *InvenduHandler) List(w http.ResponseWriter, r *http.Request) {
	commerceID, _, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r)
	dbq := h.DB.Where("commerce_id = ?", commerceID)
	var total int64
	dbq.Model(&models.Invendu{}).Count(&total)
	var rows []models.Invendu
	if err := dbq.Order("date_invendu desc, id desc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invendus", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": total, "limit": limit, "offset": offset})
}

// Create: POST /invendus
func (h *InvenduHandler) Create(w http.ResponseWriter, r *http.Request) {
	commerceID, _, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	var req invenduReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	row := models.Invendu{CommerceID: commerceID}
	if req.Produit != nil {
		row.Produit = *req.Produit
	}
	if req.Quantite != nil {
		row.Quantite = *req.Quantite
	}
	if req.Valeur != nil {
		row.Valeur = *req.Valeur
	}
	validation.Required("produit", row.Produit, v)
	validation.Required("date_invendu", req.DateInvendu, v)
	row.DateInvendu = validation.ISODate("date_invendu", req.DateInvendu, v)
	validation.RangeFloat("quantite", row.Quantite, 0, 10000, v)
	validation.NonNegativeFloat("valeur", row.Valeur, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.DB.Create(&row).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_invendu", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, row)
}

// Update: POST /invendus/update?id=...
func (h *InvenduHandler) Update(w http.ResponseWriter, r *http.Request) {
	commerceID, _, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var row models.Invendu
	if err := h.DB.Where("commerce_id = ?", commerceID).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_invendu", nil)
		return
	}
	var req invenduReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if req.Produit != nil {
		row.Produit = *req.Produit
	}
	if req.Quantite != nil {
		row.Quantite = *req.Quantite
	}
	if req.Valeur != nil {
		row.Valeur = *req.Valeur
	}
	if req.DateInvendu != "" {
		row.DateInvendu = validation.ISODate("date_invendu", req.DateInvendu, v)
	}
	validation.Required("produit", row.Produit, v)
	validation.RangeFloat("quantite", row.Quantite, 0, 10000, v)
	validation.NonNegativeFloat("valeur", row.Valeur, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.DB.Save(&row).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_invendu", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}

// Delete: POST /invendus/delete?id=...
func (h *InvenduHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commerceID, _, ok := scopeFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res := h.DB.Where("commerce_id = ?", commerceID).Delete(&models.Invendu{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_invendu", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
