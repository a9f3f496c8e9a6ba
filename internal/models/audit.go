package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Audited table names.
const (
	TableEncaissements = "encaissements"
	TableFactures      = "factures"
)

// Audit actions. Terminal classification, set once at creation.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Snapshot is a row state (before or after a change) stored as JSON.
type Snapshot map[string]any

// Value implements driver.Valuer.
func (s Snapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *Snapshot) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("snapshot: unsupported source type %T", value)
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(data, s)
}

// GormDataType tells the migrator how to type the column.
func (Snapshot) GormDataType() string { return "json" }

// GormDBDataType picks jsonb on postgres, plain json elsewhere.
func (Snapshot) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

// AuditEvent is one immutable row of the traçabilité trail. Rows are only
// ever inserted (by the audit recorder, in the same transaction as the
// business write) and read back through the enriched view; the application
// never updates or deletes them.
type AuditEvent struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	TableName  string    `gorm:"not null;index" json:"table_name"`
	RecordID   uint      `gorm:"not null;index" json:"record_id"`
	Action     string    `gorm:"not null;index" json:"action"`
	CommerceID uint      `gorm:"not null;index" json:"commerce_id"`
	UserID     uint      `json:"user_id"`
	OldValues  Snapshot  `json:"old_values"` // nil pour CREATE
	NewValues  Snapshot  `json:"new_values"` // nil pour DELETE
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
