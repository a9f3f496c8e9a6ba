package models

import "time"

// Encaissement is one day's cash receipt entry for a commerce.
// MontantTotal is derived from the three payment modes at write time.
type Encaissement struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CommerceID       uint      `gorm:"not null;index" json:"commerce_id"`
	DateEncaissement time.Time `gorm:"not null;index" json:"date_encaissement"`
	MontantEspeces   float64   `json:"montant_especes"`
	MontantCheques   float64   `json:"montant_cheques"`
	MontantCartes    float64   `json:"montant_cartes"`
	MontantTotal     float64   `gorm:"not null" json:"montant_total"`
	Commentaire      string    `json:"commentaire"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ComputeTotal recomputes the derived total from the payment modes.
func (e *Encaissement) ComputeTotal() {
	e.MontantTotal = e.MontantEspeces + e.MontantCheques + e.MontantCartes
}
