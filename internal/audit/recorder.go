package audit

import (
	"encoding/json"

	"github.com/diewo77/compta-boucherie/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recorder writes audit events alongside business writes. It is the Go
// counterpart of the database triggers the original schema relied on:
// called inside the same transaction as the insert/update/delete so a
// rolled-back write leaves no trail row.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

// SnapshotOf captures a business row as an audit snapshot through its JSON
// representation, so snapshot keys match the row's wire field names.
func SnapshotOf(row any) (models.Snapshot, error) {
	b, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var s models.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// Record inserts one audit event. CREATE must pass oldValues nil, DELETE
// newValues nil. UPDATEs whose change-set is empty (only bookkeeping
// columns moved) are skipped entirely, so no-op saves leave no trail row.
func (rec *Recorder) Record(tx *gorm.DB, commerceID, userID uint, tableName string, recordID uint, action string, oldValues, newValues models.Snapshot) error {
	if action == models.ActionUpdate && len(ChangedFields(oldValues, newValues)) == 0 {
		return nil
	}
	ev := models.AuditEvent{
		ID:         uuid.NewString(),
		TableName:  tableName,
		RecordID:   recordID,
		Action:     action,
		CommerceID: commerceID,
		UserID:     userID,
		OldValues:  oldValues,
		NewValues:  newValues,
	}
	return tx.Create(&ev).Error
}
