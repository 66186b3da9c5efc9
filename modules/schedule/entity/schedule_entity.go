package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleKind classifies a calendar entry.
type ScheduleKind string

const (
	ScheduleKindTask        ScheduleKind = "TASK"
	ScheduleKindAppointment ScheduleKind = "APPOINTMENT"
	ScheduleKindRestday     ScheduleKind = "RESTDAY"
	ScheduleKindBlock       ScheduleKind = "BLOCK"
)

// ValidKind reports whether k is one of the known schedule kinds.
func ValidKind(k ScheduleKind) bool {
	switch k {
	case ScheduleKindTask, ScheduleKindAppointment, ScheduleKindRestday, ScheduleKindBlock:
		return true
	}
	return false
}

// LifecycleStatus is derived from the entry interval vs wall-clock time by the
// lifecycle sweep job. Everything else treats it as read-only input.
type LifecycleStatus string

const (
	StatusUpcoming   LifecycleStatus = "UPCOMING"
	StatusInProgress LifecycleStatus = "IN_PROGRESS"
	StatusCompleted  LifecycleStatus = "COMPLETED"
	StatusCancelled  LifecycleStatus = "CANCELLED"
)

// RepeatFrequency is stored as entered; it is never expanded into instances.
type RepeatFrequency string

const (
	RepeatNone    RepeatFrequency = "NONE"
	RepeatDaily   RepeatFrequency = "DAILY"
	RepeatWeekly  RepeatFrequency = "WEEKLY"
	RepeatMonthly RepeatFrequency = "MONTHLY"
)

// Schedule represents one time-blocked calendar entry.
type Schedule struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	OwnerID     uuid.UUID       `db:"owner_id" json:"owner_id"`
	Kind        ScheduleKind    `db:"kind" json:"kind"`
	Title       string          `db:"title" json:"title"`
	Description *string         `db:"description" json:"description,omitempty"`
	StartTime   time.Time       `db:"start_time" json:"start_time"`
	EndTime     time.Time       `db:"end_time" json:"end_time"`
	IsAllDay    bool            `db:"is_all_day" json:"is_all_day"`
	Repeat      RepeatFrequency `db:"repeat_frequency" json:"repeat_frequency"`
	Status      LifecycleStatus `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// NormalizedEnd returns the effective end instant. An entry whose end is not
// after its start is treated as crossing midnight: its end is shifted forward
// one day. Every occupancy and overlap check must go through this.
func (s *Schedule) NormalizedEnd() time.Time {
	if s.EndTime.After(s.StartTime) {
		return s.EndTime
	}
	return s.EndTime.AddDate(0, 0, 1)
}

// ComputeStatus derives the lifecycle status of s at the given instant.
// Cancelled entries are terminal and never recomputed.
func ComputeStatus(now time.Time, s *Schedule) LifecycleStatus {
	if s.Status == StatusCancelled {
		return StatusCancelled
	}
	end := s.NormalizedEnd()
	switch {
	case now.Before(s.StartTime):
		return StatusUpcoming
	case now.Before(end):
		return StatusInProgress
	default:
		return StatusCompleted
	}
}

// StatusUpdate pairs an entry with the status the sweep computed for it and
// the status read when the entry was fetched. Keeping the fetch-time snapshot
// in its own field is what lets the diff work; comparing a field to itself
// after overwrite does not.
type StatusUpdate struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	FetchedStatus  LifecycleStatus `json:"fetched_status"`
	ComputedStatus LifecycleStatus `json:"computed_status"`
}
