package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/compta-boucherie/internal/models"
)

func TestSignupCreatesCommerceAndUser(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	body := `{"email":"Gerant@Test.fr","password":"secret123","nom":"Durand","prenom":"Paul","commerce_nom":"Boucherie Durand","email_comptable":"compta@cabinet.fr"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "gerant@test.fr").First(&user).Error; err != nil {
		t.Fatalf("expected lowercased user email: %v", err)
	}
	if user.Password == "secret123" {
		t.Fatalf("password must be stored hashed")
	}
	var commerce models.Commerce
	if err := db.First(&commerce, user.CommerceID).Error; err != nil {
		t.Fatalf("commerce: %v", err)
	}
	if commerce.Nom != "Boucherie Durand" || commerce.Type != "boucherie" {
		t.Fatalf("unexpected commerce %+v", commerce)
	}
	if commerce.EmailComptable != "compta@cabinet.fr" {
		t.Fatalf("expected accountant email on commerce, got %q", commerce.EmailComptable)
	}

	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected session cookie after signup")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	body := `{"email":"g@test.fr","password":"secret123","commerce_nom":"Boucherie A"}`
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", w.Code)
	}
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
}

func TestSignupValidationTranslated(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{}`))
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Details["email"] != "Required" {
		t.Fatalf("expected english message, got %v", resp.Details)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	signup := `{"email":"g@test.fr","password":"secret123","commerce_nom":"Boucherie A"}`
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(signup)))
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":" G@test.fr ","password":"secret123"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"g@test.fr","password":"wrong"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"nobody@test.fr","password":"x"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user got %d", w.Code)
	}
}
