package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ScheduleIDs is the optional subset of entries a share exposes, stored as
// JSONB. A null/empty list means the whole calendar is shared.
type ScheduleIDs []uuid.UUID

func (s ScheduleIDs) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *ScheduleIDs) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}

// SharedSchedule is a public, read-only view onto an owner's calendar,
// addressed by an opaque slug instead of the owner's id.
type SharedSchedule struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	ShareID     string      `db:"share_id" json:"share_id"`
	OwnerID     uuid.UUID   `db:"owner_id" json:"owner_id"`
	Label       string      `db:"label" json:"label"`
	ScheduleIDs ScheduleIDs `db:"schedule_ids" json:"schedule_ids,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
