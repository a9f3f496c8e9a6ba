package models

import "time"

// Facture is a supplier invoice tracked for the monthly accounting export.
type Facture struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CommerceID   uint       `gorm:"not null;index" json:"commerce_id"`
	Fournisseur  string     `gorm:"not null;index" json:"fournisseur"`
	Numero       string     `json:"numero"`
	DateFacture  time.Time  `gorm:"not null;index" json:"date_facture"`
	MontantTTC   float64    `gorm:"not null" json:"montant_ttc"`
	Payee        bool       `gorm:"not null;default:false" json:"payee"`
	DatePaiement *time.Time `json:"date_paiement"`
	Commentaire  string     `json:"commentaire"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
