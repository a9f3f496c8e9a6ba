package models

import "time"

// Invendu records unsold goods (pertes) for a given day.
type Invendu struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommerceID  uint      `gorm:"not null;index" json:"commerce_id"`
	DateInvendu time.Time `gorm:"not null;index" json:"date_invendu"`
	Produit     string    `gorm:"not null" json:"produit"`
	Quantite    float64   `json:"quantite"`
	Valeur      float64   `json:"valeur"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
