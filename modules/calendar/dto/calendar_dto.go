package dto

import (
	"time"

	"optimeet/modules/calendar/engine"
)

// ===================== Request DTOs =====================

// StartSelectionRequest opens a selection session from an eligible cell click
type StartSelectionRequest struct {
	Mode      string    `json:"mode" validate:"required"`
	CellStart time.Time `json:"cell_start" validate:"required"`
}

// PickCellRequest registers a further cell click on an open session
type PickCellRequest struct {
	CellStart time.Time `json:"cell_start" validate:"required"`
}

// AdjustEndRequest moves the selection end time
type AdjustEndRequest struct {
	End time.Time `json:"end" validate:"required"`
}

// SetFormRequest replaces the schedule-creation form fields
type SetFormRequest struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsAllDay    bool   `json:"is_all_day"`
	Repeat      string `json:"repeat_frequency"`
}

// SetMessageRequest attaches the proposal note
type SetMessageRequest struct {
	Message string `json:"message"`
}

// AddProposedTimeRequest appends an explicit candidate interval
type AddProposedTimeRequest struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// ProposedIndexRequest addresses one candidate interval
type ProposedIndexRequest struct {
	Index int `json:"index"`
}

// SubmitRequest finalizes a session. ReceiverID and Title are only read in
// proposal mode; schedule mode takes everything from the session's form.
type SubmitRequest struct {
	ReceiverID string `json:"receiver_id"`
	Title      string `json:"title"`
}

// ===================== Response DTOs =====================

// ViewCapabilities tells the client what interactions the current view
// allows. A shared calendar keeps slot clicks and proposals enabled but
// never schedule creation; mutation paths check the flags server-side too.
type ViewCapabilities struct {
	CanSelectSlots     bool `json:"can_select_slots"`
	CanCreateSchedules bool `json:"can_create_schedules"`
	CanProposeTimes    bool `json:"can_propose_times"`
	CanNavigate        bool `json:"can_navigate"`
}

// ViewResponse is one composed calendar view. Exactly one grid field is set,
// matching the granularity.
type ViewResponse struct {
	Granularity  string            `json:"granularity"`
	Reference    time.Time         `json:"reference"`
	Day          *engine.DayGrid   `json:"day,omitempty"`
	Week         *engine.WeekGrid  `json:"week,omitempty"`
	Month        *engine.MonthGrid `json:"month,omitempty"`
	Year         *engine.YearGrid  `json:"year,omitempty"`
	Capabilities ViewCapabilities  `json:"capabilities"`
}

// SelectionResponse is a session id plus its current selection state
type SelectionResponse struct {
	SessionID string           `json:"session_id"`
	Selection engine.Selection `json:"selection"`
}

// SubmitResponse reports what the submission produced
type SubmitResponse struct {
	Kind       string `json:"kind"`
	ScheduleID string `json:"schedule_id,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}
