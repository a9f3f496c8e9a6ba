package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/compta-boucherie/internal/auth"
	"github.com/diewo77/compta-boucherie/internal/httpx"
)

// scopeFrom extracts the tenant and actor from the request context, writing
// a 401 envelope when the auth middleware did not resolve them.
func scopeFrom(w http.ResponseWriter, r *http.Request) (commerceID, userID uint, ok bool) {
	commerceID, cok := auth.CommerceIDFromContext(r.Context())
	userID, uok := auth.UserIDFromContext(r.Context())
	if !cok || !uok || commerceID == 0 {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return 0, 0, false
	}
	return commerceID, userID, true
}

// idParam parses the id query parameter, writing a 400 envelope when absent
// or invalid.
func idParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}

// pagination reads limit/page query params with the app-wide defaults.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}
