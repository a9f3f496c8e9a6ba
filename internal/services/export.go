package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/compta-boucherie/internal/models"

	"gorm.io/gorm"
)

// MonthlySummary is the accounting export payload sent to the accountant:
// one month of activity for one commerce.
type MonthlySummary struct {
	Commerce           string           `json:"commerce"`
	Mois               string           `json:"mois"` // YYYY-MM
	TotalEspeces       float64          `json:"total_especes"`
	TotalCheques       float64          `json:"total_cheques"`
	TotalCartes        float64          `json:"total_cartes"`
	TotalEncaissements float64          `json:"total_encaissements"`
	NbEncaissements    int64            `json:"nb_encaissements"`
	TotalFactures      float64          `json:"total_factures"`
	NbFactures         int64            `json:"nb_factures"`
	FacturesImpayees   []models.Facture `json:"factures_impayees"`
	TotalInvendus      float64          `json:"total_invendus"`
}

// ExportService aggregates a tenant's month for the accounting export.
type ExportService struct {
	DB *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService { return &ExportService{DB: db} }

// MonthlySummary computes the export for [1st of month, 1st of next month).
func (s *ExportService) MonthlySummary(ctx context.Context, commerceID uint, year int, month time.Month) (*MonthlySummary, error) {
	if year < 2000 || year > 2100 {
		return nil, errors.New("invalid year")
	}
	var commerce models.Commerce
	if err := s.DB.WithContext(ctx).First(&commerce, commerceID).Error; err != nil {
		return nil, err
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	out := &MonthlySummary{
		Commerce: commerce.Nom,
		Mois:     fmt.Sprintf("%04d-%02d", year, int(month)),
	}

	encRow := s.DB.WithContext(ctx).Model(&models.Encaissement{}).
		Where("commerce_id = ? AND date_encaissement >= ? AND date_encaissement < ?", commerceID, from, to).
		Select("COALESCE(SUM(montant_especes),0), COALESCE(SUM(montant_cheques),0), COALESCE(SUM(montant_cartes),0), COALESCE(SUM(montant_total),0), COUNT(*)").
		Row()
	if err := encRow.Scan(&out.TotalEspeces, &out.TotalCheques, &out.TotalCartes, &out.TotalEncaissements, &out.NbEncaissements); err != nil {
		return nil, err
	}

	facRow := s.DB.WithContext(ctx).Model(&models.Facture{}).
		Where("commerce_id = ? AND date_facture >= ? AND date_facture < ?", commerceID, from, to).
		Select("COALESCE(SUM(montant_ttc),0), COUNT(*)").
		Row()
	if err := facRow.Scan(&out.TotalFactures, &out.NbFactures); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).
		Where("commerce_id = ? AND date_facture >= ? AND date_facture < ? AND payee = ?", commerceID, from, to, false).
		Order("date_facture asc").
		Find(&out.FacturesImpayees).Error; err != nil {
		return nil, err
	}

	invRow := s.DB.WithContext(ctx).Model(&models.Invendu{}).
		Where("commerce_id = ? AND date_invendu >= ? AND date_invendu < ?", commerceID, from, to).
		Select("COALESCE(SUM(valeur),0)").
		Row()
	if err := invRow.Scan(&out.TotalInvendus); err != nil {
		return nil, err
	}
	return out, nil
}
