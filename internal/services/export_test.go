package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/compta-boucherie/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupExportDB(t *testing.T) (*gorm.DB, models.Commerce) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Commerce{}, &models.Encaissement{}, &models.Facture{}, &models.Invendu{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	commerce := models.Commerce{Nom: "Boucherie Export", Type: "boucherie"}
	if err := db.Create(&commerce).Error; err != nil {
		t.Fatalf("commerce: %v", err)
	}
	return db, commerce
}

func day(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

func TestMonthlySummaryAggregation(t *testing.T) {
	db, commerce := setupExportDB(t)

	// two receipts inside march, one outside
	for _, e := range []models.Encaissement{
		{CommerceID: commerce.ID, DateEncaissement: day(3), MontantEspeces: 100, MontantCheques: 50, MontantCartes: 200, MontantTotal: 350},
		{CommerceID: commerce.ID, DateEncaissement: day(20), MontantEspeces: 80, MontantCartes: 120, MontantTotal: 200},
		{CommerceID: commerce.ID, DateEncaissement: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), MontantEspeces: 999, MontantTotal: 999},
	} {
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("encaissement: %v", err)
		}
	}
	// one paid, one unpaid invoice in march
	for _, f := range []models.Facture{
		{CommerceID: commerce.ID, Fournisseur: "Metro", DateFacture: day(5), MontantTTC: 300, Payee: true},
		{CommerceID: commerce.ID, Fournisseur: "Transgourmet", DateFacture: day(12), MontantTTC: 150},
	} {
		if err := db.Create(&f).Error; err != nil {
			t.Fatalf("facture: %v", err)
		}
	}
	if err := db.Create(&models.Invendu{CommerceID: commerce.ID, DateInvendu: day(8), Produit: "terrine", Quantite: 3, Valeur: 25.5}).Error; err != nil {
		t.Fatalf("invendu: %v", err)
	}

	svc := NewExportService(db)
	sum, err := svc.MonthlySummary(context.Background(), commerce.ID, 2025, time.March)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Commerce != "Boucherie Export" || sum.Mois != "2025-03" {
		t.Fatalf("unexpected header %+v", sum)
	}
	if sum.TotalEspeces != 180 || sum.TotalCheques != 50 || sum.TotalCartes != 320 {
		t.Fatalf("unexpected mode totals %+v", sum)
	}
	if sum.TotalEncaissements != 550 || sum.NbEncaissements != 2 {
		t.Fatalf("unexpected receipt totals %+v", sum)
	}
	if sum.TotalFactures != 450 || sum.NbFactures != 2 {
		t.Fatalf("unexpected invoice totals %+v", sum)
	}
	if len(sum.FacturesImpayees) != 1 || sum.FacturesImpayees[0].Fournisseur != "Transgourmet" {
		t.Fatalf("unexpected unpaid list %+v", sum.FacturesImpayees)
	}
	if sum.TotalInvendus != 25.5 {
		t.Fatalf("unexpected invendus total %v", sum.TotalInvendus)
	}
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	db, commerce := setupExportDB(t)
	svc := NewExportService(db)
	sum, err := svc.MonthlySummary(context.Background(), commerce.ID, 2025, time.January)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalEncaissements != 0 || sum.NbEncaissements != 0 || sum.TotalFactures != 0 || sum.TotalInvendus != 0 {
		t.Fatalf("expected zeroed summary %+v", sum)
	}
	if len(sum.FacturesImpayees) != 0 {
		t.Fatalf("expected no unpaid invoices %+v", sum.FacturesImpayees)
	}
}

func TestMailerSendExport(t *testing.T) {
	var got exportMessage
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "secret")
	sum := &MonthlySummary{Commerce: "Boucherie Export", Mois: "2025-03", TotalEncaissements: 550}
	if err := m.SendExport(context.Background(), "comptable@cabinet.fr", sum); err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", auth)
	}
	if got.To != "comptable@cabinet.fr" {
		t.Fatalf("unexpected recipient %q", got.To)
	}
	if got.Subject != "Export comptable mensuel 2025-03" {
		t.Fatalf("unexpected subject %q", got.Subject)
	}
	if got.Summary == nil || got.Summary.TotalEncaissements != 550 {
		t.Fatalf("unexpected summary %+v", got.Summary)
	}
}

func TestMailerPropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := NewMailer(srv.URL, "")
	if err := m.SendExport(context.Background(), "comptable@cabinet.fr", &MonthlySummary{Mois: "2025-03"}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestMailerNotConfigured(t *testing.T) {
	m := NewMailer("", "")
	err := m.SendExport(context.Background(), "comptable@cabinet.fr", &MonthlySummary{})
	if !errors.Is(err, ErrMailerNotConfigured) {
		t.Fatalf("expected ErrMailerNotConfigured got %v", err)
	}
}
