package models

import "time"

// User & auth related models
type User struct {
	ID         uint     `gorm:"primaryKey"`
	Email      string   `gorm:"unique;not null;index"`
	Password   string   `gorm:"not null"` // hashé
	Nom        string   `gorm:"index"`
	Prenom     string   `gorm:"index"`
	CommerceID uint     `gorm:"not null;index"` // commerce auquel l'utilisateur appartient
	Commerce   Commerce `gorm:"foreignKey:CommerceID"`
	RoleID     uint     // clé étrangère vers Role
	Role       Role     `gorm:"foreignKey:RoleID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"` // admin, gerant, employe
	Description string // optionnel
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Commerce is the tenant: one shop account. All business rows are scoped
// to a commerce and queries never cross that boundary.
type Commerce struct {
	ID             uint   `gorm:"primaryKey"`
	Nom            string `gorm:"not null"`
	Type           string `gorm:"not null;default:'boucherie'"` // boucherie, boulangerie
	EmailComptable string // destinataire de l'export mensuel
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
