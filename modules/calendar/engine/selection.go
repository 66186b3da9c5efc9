package engine

import (
	"time"

	"optimeet/core/errors"
	"optimeet/modules/schedule/entity"
)

// SelectionState is the lifecycle position of an in-progress selection.
type SelectionState string

const (
	StateIdle       SelectionState = "IDLE"
	StateSlotChosen SelectionState = "SLOT_CHOSEN"
	StateEditing    SelectionState = "EDITING"
	StateSubmitting SelectionState = "SUBMITTING"
)

// SelectionMode separates the two things a cell click can start.
type SelectionMode string

const (
	ModeCreatingSchedule SelectionMode = "CREATING_SCHEDULE"
	ModeProposingTimes   SelectionMode = "PROPOSING_TIMES"
)

// ScheduleForm carries the editable fields of a schedule-creation selection.
type ScheduleForm struct {
	Kind        entity.ScheduleKind    `json:"kind"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	IsAllDay    bool                   `json:"is_all_day"`
	Repeat      entity.RepeatFrequency `json:"repeat_frequency"`
}

// Selection is an immutable snapshot of the user's in-progress slot picking.
// Every transition returns a new value; nothing downstream may mutate one.
type Selection struct {
	State SelectionState `json:"state"`
	Mode  SelectionMode  `json:"mode"`

	// Anchor is the clicked cell's start instant; End defaults to one hour
	// after it.
	Anchor time.Time `json:"anchor"`
	End    time.Time `json:"end"`

	Form ScheduleForm `json:"form"`

	// Proposal-mode fields. ChosenIndex is -1 while no proposed time has been
	// singled out.
	Proposed    []Interval `json:"proposed_times"`
	ChosenIndex int        `json:"chosen_index"`
	Message     string     `json:"message"`
}

// NewSelection starts a selection from an eligible cell click.
func NewSelection(mode SelectionMode, cellStart time.Time) Selection {
	sel := Selection{
		State:  StateSlotChosen,
		Mode:   mode,
		Anchor: cellStart,
		End:    cellStart.Add(time.Hour),
		Form: ScheduleForm{
			Kind:   entity.ScheduleKindTask,
			Repeat: entity.RepeatNone,
		},
		ChosenIndex: -1,
	}
	if mode == ModeProposingTimes {
		// The first picked cell doubles as the initially chosen time.
		sel.Proposed = []Interval{{Start: cellStart, End: sel.End}}
		sel.ChosenIndex = 0
	}
	return sel
}

func (s Selection) active() bool {
	return s.State == StateSlotChosen || s.State == StateEditing
}

// PickCell handles a further eligible-cell click while the popover is open.
// In proposal mode it appends another (start, start+1h) pair; in schedule
// mode it re-anchors the single slot.
func (s Selection) PickCell(cellStart time.Time) (Selection, *errors.AppError) {
	if !s.active() {
		return s, errors.NewAppError(errors.ErrInvalidInput, "no open selection", nil)
	}

	if s.Mode == ModeProposingTimes {
		s.Proposed = append(append([]Interval{}, s.Proposed...), Interval{
			Start: cellStart,
			End:   cellStart.Add(time.Hour),
		})
		s.State = StateEditing
		return s, nil
	}

	s.Anchor = cellStart
	s.End = cellStart.Add(time.Hour)
	s.State = StateSlotChosen
	return s, nil
}

// AdjustEnd moves the selection end. An end at or before the anchor is
// rejected and the previous value kept.
func (s Selection) AdjustEnd(end time.Time) (Selection, *errors.AppError) {
	if !s.active() {
		return s, errors.NewAppError(errors.ErrInvalidInput, "no open selection", nil)
	}
	if !end.After(s.Anchor) {
		return s, errors.NewAppError(errors.ErrInvalidInput, "end time must be after start time", nil)
	}
	s.End = end
	s.State = StateEditing
	return s, nil
}

// SetForm replaces the schedule-creation form fields.
func (s Selection) SetForm(form ScheduleForm) (Selection, *errors.AppError) {
	if !s.active() {
		return s, errors.NewAppError(errors.ErrInvalidInput, "no open selection", nil)
	}
	if s.Mode != ModeCreatingSchedule {
		return s, errors.NewAppError(errors.ErrInvalidInput, "form fields only apply when creating a schedule", nil)
	}
	s.Form = form
	s.State = StateEditing
	return s, nil
}

// SetMessage attaches the free-text note of a proposal.
func (s Selection) SetMessage(message string) (Selection, *errors.AppError) {
	if !s.active() {
		return s, errors.NewAppError(errors.ErrInvalidInput, "no open selection", nil)
	}
	if s.Mode != ModeProposingTimes {
		return s, errors.NewAppError(errors.ErrInvalidInput, "message only applies to proposals", nil)
	}
	s.Message = message
	s.State = StateEditing
	return s, nil
}

// AddProposedTime appends an explicit interval (the day-view date-input path).
func (s Selection) AddProposedTime(iv Interval) (Selection, *errors.AppError) {
	if !s.active() || s.Mode != ModeProposingTimes {
		return s, errors.NewAppError(errors.ErrInvalidInput, "no open proposal selection", nil)
	}
	if !iv.End.After(iv.Start) {
		return s, errors.NewAppError(errors.ErrInvalidInput, "end time must be after start time", nil)
	}
	s.Proposed = append(append([]Interval{}, s.Proposed...), iv)
	s.State = StateEditing
	return s, nil
}

// RemoveProposedTime drops one candidate interval by index. If the removed
// interval was the chosen one, the choice is cleared.
func (s Selection) RemoveProposedTime(index int) (Selection, *errors.AppError) {
	if !s.active() || s.Mode != ModeProposingTimes {
		return s, errors.NewAppError(errors.ErrInvalidInput, "no open proposal selection", nil)
	}
	if index < 0 || index >= len(s.Proposed) {
		return s, errors.NewAppError(errors.ErrInvalidInput, "proposed time index out of range", nil)
	}

	kept := make([]Interval, 0, len(s.Proposed)-1)
	kept = append(kept, s.Proposed[:index]...)
	kept = append(kept, s.Proposed[index+1:]...)
	s.Proposed = kept

	switch {
	case s.ChosenIndex == index:
		s.ChosenIndex = -1
	case s.ChosenIndex > index:
		s.ChosenIndex--
	}
	s.State = StateEditing
	return s, nil
}

// ChooseProposedTime marks one candidate interval as the primary suggestion.
func (s Selection) ChooseProposedTime(index int) (Selection, *errors.AppError) {
	if !s.active() || s.Mode != ModeProposingTimes {
		return s, errors.NewAppError(errors.ErrInvalidInput, "no open proposal selection", nil)
	}
	if index < 0 || index >= len(s.Proposed) {
		return s, errors.NewAppError(errors.ErrInvalidInput, "proposed time index out of range", nil)
	}
	s.ChosenIndex = index
	s.State = StateEditing
	return s, nil
}

// BeginSubmit flips the selection into the submit-in-flight state. A submit
// issued while another is pending is refused, not queued.
func (s Selection) BeginSubmit() (Selection, *errors.AppError) {
	if s.State == StateSubmitting {
		return s, errors.NewAppError(errors.ErrSubmissionInFlight, "a submission is already in flight", nil)
	}
	if !s.active() {
		return s, errors.NewAppError(errors.ErrInvalidInput, "no open selection", nil)
	}
	s.State = StateSubmitting
	return s, nil
}

// FailSubmit returns a failed submission to the editing state so the user can
// resubmit once the in-flight guard clears.
func (s Selection) FailSubmit() Selection {
	if s.State == StateSubmitting {
		s.State = StateEditing
	}
	return s
}

// Complete finishes a successful submission; Cancel discards at any point.
// Both land on Idle with no residual state.
func (s Selection) Complete() Selection {
	return Selection{State: StateIdle, ChosenIndex: -1}
}

func (s Selection) Cancel() Selection {
	return Selection{State: StateIdle, ChosenIndex: -1}
}
