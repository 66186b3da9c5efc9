package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// ProposedTime is one candidate interval offered by the sender.
type ProposedTime struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ProposedTimes is stored as a JSONB column, preserving the order the sender
// picked the candidates in.
type ProposedTimes []ProposedTime

func (p ProposedTimes) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *ProposedTimes) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, p)
}

// AppointmentRequest is a pending negotiation between two users over a set of
// candidate times.
type AppointmentRequest struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	SenderID      uuid.UUID     `db:"sender_id" json:"sender_id"`
	ReceiverID    uuid.UUID     `db:"receiver_id" json:"receiver_id"`
	Title         string        `db:"title" json:"title"`
	Message       *string       `db:"message" json:"message,omitempty"`
	ProposedTimes ProposedTimes `db:"proposed_times" json:"proposed_times"`
	Status        RequestStatus `db:"status" json:"status"`
	SelectedStart *time.Time    `db:"selected_start" json:"selected_start,omitempty"`
	SelectedEnd   *time.Time    `db:"selected_end" json:"selected_end,omitempty"`
	RespondedAt   *time.Time    `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
