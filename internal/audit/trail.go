package audit

import (
	"context"
	"time"

	"github.com/diewo77/compta-boucherie/internal/db"
	"github.com/diewo77/compta-boucherie/internal/models"

	"gorm.io/gorm"
)

// FetchLimit caps every trail query; the page never needs more history.
const FetchLimit = 100

// Filters narrows a trail query. Empty values mean "all".
type Filters struct {
	Table  string
	Action string
}

// AuditEntry is one row of the enriched audit view: the raw event joined
// with the actor's name and the affected record's business date and amount.
type AuditEntry struct {
	ID         string          `json:"id"`
	TableName  string          `json:"table_name"`
	RecordID   uint            `json:"record_id"`
	Action     string          `json:"action"`
	CommerceID uint            `json:"commerce_id"`
	UserID     uint            `json:"user_id"`
	UserNom    string          `json:"user_nom"`
	OldValues  models.Snapshot `json:"old_values"`
	NewValues  models.Snapshot `json:"new_values"`
	CreatedAt  time.Time       `json:"created_at"`
	RecordDate *string         `json:"record_date"` // ISO date (YYYY-MM-DD) or nil
	Montant    *float64        `json:"montant"`
}

// TrailService reads the audit trail. It never writes: events are inserted
// by the Recorder alongside business writes and are immutable afterwards.
type TrailService struct {
	DB *gorm.DB
}

func NewTrailService(gdb *gorm.DB) *TrailService { return &TrailService{DB: gdb} }

// Fetch returns up to FetchLimit events for one commerce, newest first.
// Each call is a fresh read; there is no caching. Query errors are returned
// as-is for the caller to surface (manual refresh, no retry).
func (s *TrailService) Fetch(ctx context.Context, commerceID uint, f Filters) ([]AuditEntry, error) {
	q := s.DB.WithContext(ctx).Table(db.AuditViewName).Where("commerce_id = ?", commerceID)
	if f.Table != "" {
		q = q.Where("table_name = ?", f.Table)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	entries := []AuditEntry{}
	if err := q.Order("created_at DESC").Limit(FetchLimit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
