package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/compta-boucherie/internal/auth"
	"github.com/diewo77/compta-boucherie/internal/httpx"
	"github.com/diewo77/compta-boucherie/internal/i18n"
	"github.com/diewo77/compta-boucherie/internal/models"
	"github.com/diewo77/compta-boucherie/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ensureRole fetches or creates a role by name.
func ensureRole(db *gorm.DB, name, description string) (*models.Role, error) {
	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err == nil {
		return &role, nil
	}
	role = models.Role{Name: name, Description: description}
	if err := db.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/signup", h.signup)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
}

// signup creates the commerce (tenant) and its first user in one transaction.
func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req struct {
		Email          string `json:"email"`
		Password       string `json:"password"`
		Nom            string `json:"nom"`
		Prenom         string `json:"prenom"`
		CommerceNom    string `json:"commerce_nom"`
		CommerceType   string `json:"commerce_type"`
		EmailComptable string `json:"email_comptable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	v := validation.Violations{}
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	validation.Required("commerce_nom", req.CommerceNom, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", translate(lang, v))
		return
	}
	var existing int64
	h.DB.Model(&models.User{}).Where("email = ?", strings.ToLower(req.Email)).Count(&existing)
	if existing > 0 {
		httpx.JSONError(w, http.StatusConflict, "email_taken", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	ctype := req.CommerceType
	if ctype == "" {
		ctype = "boucherie"
	}
	var user models.User
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		commerce := models.Commerce{Nom: req.CommerceNom, Type: ctype, EmailComptable: req.EmailComptable}
		if err := tx.Create(&commerce).Error; err != nil {
			return err
		}
		role, err := ensureRole(tx, "gerant", "Gérant du commerce")
		if err != nil {
			return err
		}
		user = models.User{
			Email:      strings.ToLower(req.Email),
			Password:   string(hash),
			Nom:        req.Nom,
			Prenom:     req.Prenom,
			CommerceID: commerce.ID,
			RoleID:     role.ID,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_signup", nil)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": user.ID, "commerce_id": user.CommerceID})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	var user models.User
	if err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", i18n.T(lang, "unauthorized"))
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", i18n.T(lang, "unauthorized"))
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"id": user.ID, "commerce_id": user.CommerceID})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// translate maps validation codes to the request language for display.
func translate(lang string, v validation.Violations) map[string]string {
	out := make(map[string]string, len(v))
	for field, code := range v {
		out[field] = i18n.T(lang, code)
	}
	return out
}
