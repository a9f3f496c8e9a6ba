package server

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/compta-boucherie/internal/audit"
	"github.com/diewo77/compta-boucherie/internal/auth"
	"github.com/diewo77/compta-boucherie/internal/config"
	"github.com/diewo77/compta-boucherie/internal/handlers"
	"github.com/diewo77/compta-boucherie/internal/httpx"
	"github.com/diewo77/compta-boucherie/internal/logging"
	"github.com/diewo77/compta-boucherie/internal/models"
	"github.com/diewo77/compta-boucherie/internal/services"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth resolves the session's commerce so every handler works on
	// a tenant-scoped context.
	auth.SetCommerceResolver(func(_ context.Context, uid uint) uint {
		var user models.User
		if err := db.Select("commerce_id").First(&user, uid).Error; err != nil {
			return 0
		}
		return user.CommerceID
	})

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Perform a lightweight DB check (SELECT 1) – ignore detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Header().Set("Content-Type", "application/json")
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}

	// Encaissement endpoints. List/Create via /encaissements; update/delete
	// via /encaissements/update & /encaissements/delete for simplicity.
	eh := handlers.NewEncaissementHandler(db)
	mux.Handle("/encaissements", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			eh.List(w, r)
		case http.MethodPost:
			eh.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/encaissements/update", protect(eh.Update))
	mux.Handle("/encaissements/delete", protect(eh.Delete))

	// Facture endpoints
	fh := handlers.NewFactureHandler(db)
	mux.Handle("/factures", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fh.List(w, r)
		case http.MethodPost:
			fh.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/factures/update", protect(fh.Update))
	mux.Handle("/factures/payer", protect(fh.Payer))
	mux.Handle("/factures/delete", protect(fh.Delete))

	// Invendu endpoints
	ih := handlers.NewInvenduHandler(db)
	mux.Handle("/invendus", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ih.List(w, r)
		case http.MethodPost:
			ih.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/invendus/update", protect(ih.Update))
	mux.Handle("/invendus/delete", protect(ih.Delete))

	// Traçabilité
	ah := handlers.NewAuditHandler(audit.NewTrailService(db))
	mux.Handle("/audit", protect(ah.List))

	// Export mensuel
	exh := handlers.NewExportHandler(db, services.NewExportService(db), services.NewMailer(cfg.MailerURL, cfg.MailerAPIKey), cfg.ComptableEmail)
	mux.Handle("/export/mensuel", protect(exh.Mensuel))

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Logger.WithField("duration", time.Since(start).String()).Infof("%s %s", r.Method, r.URL.Path)
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Logger.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
