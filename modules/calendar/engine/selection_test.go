package engine

import (
	"testing"
	"time"

	"optimeet/core/errors"
)

var anchor = time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC)

func TestNewSelectionDefaults(t *testing.T) {
	sel := NewSelection(ModeCreatingSchedule, anchor)

	if sel.State != StateSlotChosen {
		t.Errorf("state = %s, want %s", sel.State, StateSlotChosen)
	}
	if !sel.End.Equal(anchor.Add(time.Hour)) {
		t.Errorf("end = %v, want anchor+1h", sel.End)
	}
	if len(sel.Proposed) != 0 || sel.ChosenIndex != -1 {
		t.Errorf("schedule mode should carry no proposed times, got %v chosen %d", sel.Proposed, sel.ChosenIndex)
	}
}

func TestNewSelectionProposalSeedsFirstSlot(t *testing.T) {
	sel := NewSelection(ModeProposingTimes, anchor)

	if len(sel.Proposed) != 1 {
		t.Fatalf("proposed count = %d, want 1", len(sel.Proposed))
	}
	if !sel.Proposed[0].Start.Equal(anchor) || !sel.Proposed[0].End.Equal(anchor.Add(time.Hour)) {
		t.Errorf("first proposed = %+v", sel.Proposed[0])
	}
	if sel.ChosenIndex != 0 {
		t.Errorf("chosen index = %d, want 0", sel.ChosenIndex)
	}
}

func TestPickCellAccumulatesProposalsInOrder(t *testing.T) {
	sel := NewSelection(ModeProposingTimes, anchor)

	second := anchor.Add(3 * time.Hour)
	third := anchor.Add(26 * time.Hour)

	sel, appErr := sel.PickCell(second)
	if appErr != nil {
		t.Fatalf("pick second: %v", appErr)
	}
	sel, appErr = sel.PickCell(third)
	if appErr != nil {
		t.Fatalf("pick third: %v", appErr)
	}

	if len(sel.Proposed) != 3 {
		t.Fatalf("proposed count = %d, want 3", len(sel.Proposed))
	}
	starts := []time.Time{anchor, second, third}
	for i, want := range starts {
		if !sel.Proposed[i].Start.Equal(want) {
			t.Errorf("proposed[%d].Start = %v, want %v (click order must be preserved)", i, sel.Proposed[i].Start, want)
		}
		if !sel.Proposed[i].End.Equal(want.Add(time.Hour)) {
			t.Errorf("proposed[%d].End = %v, want start+1h", i, sel.Proposed[i].End)
		}
	}
}

func TestPickCellReanchorsInScheduleMode(t *testing.T) {
	sel := NewSelection(ModeCreatingSchedule, anchor)

	moved := anchor.Add(5 * time.Hour)
	sel, appErr := sel.PickCell(moved)
	if appErr != nil {
		t.Fatalf("pick: %v", appErr)
	}

	if !sel.Anchor.Equal(moved) || !sel.End.Equal(moved.Add(time.Hour)) {
		t.Errorf("anchor/end = %v/%v, want re-anchored to %v", sel.Anchor, sel.End, moved)
	}
}

func TestAdjustEnd(t *testing.T) {
	sel := NewSelection(ModeCreatingSchedule, anchor)

	longer := anchor.Add(2 * time.Hour)
	sel, appErr := sel.AdjustEnd(longer)
	if appErr != nil {
		t.Fatalf("adjust: %v", appErr)
	}
	if !sel.End.Equal(longer) {
		t.Errorf("end = %v, want %v", sel.End, longer)
	}

	// An end at or before the anchor is rejected and the value kept.
	for _, bad := range []time.Time{anchor, anchor.Add(-time.Hour)} {
		next, appErr := sel.AdjustEnd(bad)
		if appErr == nil {
			t.Errorf("AdjustEnd(%v) accepted", bad)
		}
		if !next.End.Equal(longer) {
			t.Errorf("rejected adjust changed end to %v", next.End)
		}
	}
}

func TestRemoveProposedTimeFixesChosenIndex(t *testing.T) {
	sel := NewSelection(ModeProposingTimes, anchor)
	sel, _ = sel.PickCell(anchor.Add(2 * time.Hour))
	sel, _ = sel.PickCell(anchor.Add(4 * time.Hour))

	sel, appErr := sel.ChooseProposedTime(2)
	if appErr != nil {
		t.Fatalf("choose: %v", appErr)
	}

	// Removing an earlier entry shifts the chosen index down.
	sel, appErr = sel.RemoveProposedTime(0)
	if appErr != nil {
		t.Fatalf("remove: %v", appErr)
	}
	if len(sel.Proposed) != 2 || sel.ChosenIndex != 1 {
		t.Errorf("after remove: count=%d chosen=%d, want 2/1", len(sel.Proposed), sel.ChosenIndex)
	}

	// Removing the chosen entry clears the choice.
	sel, appErr = sel.RemoveProposedTime(1)
	if appErr != nil {
		t.Fatalf("remove chosen: %v", appErr)
	}
	if sel.ChosenIndex != -1 {
		t.Errorf("chosen index = %d, want -1", sel.ChosenIndex)
	}

	if _, appErr := sel.RemoveProposedTime(5); appErr == nil {
		t.Error("out-of-range remove accepted")
	}
}

func TestModeGuards(t *testing.T) {
	schedule := NewSelection(ModeCreatingSchedule, anchor)
	proposal := NewSelection(ModeProposingTimes, anchor)

	if _, appErr := schedule.SetMessage("hi"); appErr == nil {
		t.Error("message accepted in schedule mode")
	}
	if _, appErr := proposal.SetForm(ScheduleForm{Title: "x"}); appErr == nil {
		t.Error("form accepted in proposal mode")
	}
	if _, appErr := schedule.AddProposedTime(Interval{anchor, anchor.Add(time.Hour)}); appErr == nil {
		t.Error("proposed time accepted in schedule mode")
	}
}

func TestSubmitLifecycle(t *testing.T) {
	sel := NewSelection(ModeCreatingSchedule, anchor)

	sel, appErr := sel.BeginSubmit()
	if appErr != nil {
		t.Fatalf("begin submit: %v", appErr)
	}
	if sel.State != StateSubmitting {
		t.Fatalf("state = %s, want %s", sel.State, StateSubmitting)
	}

	// A second submit while one is pending is refused with the dedicated code.
	if _, appErr := sel.BeginSubmit(); appErr == nil || appErr.Code != errors.ErrSubmissionInFlight {
		t.Errorf("double submit: got %v, want %s", appErr, errors.ErrSubmissionInFlight)
	}

	// Failure reopens editing, so a retry can go through.
	sel = sel.FailSubmit()
	if sel.State != StateEditing {
		t.Errorf("state after failure = %s, want %s", sel.State, StateEditing)
	}
	sel, appErr = sel.BeginSubmit()
	if appErr != nil {
		t.Fatalf("resubmit: %v", appErr)
	}

	// Success clears everything.
	done := sel.Complete()
	if done.State != StateIdle || len(done.Proposed) != 0 || done.ChosenIndex != -1 {
		t.Errorf("completed selection = %+v, want idle zero state", done)
	}
}

func TestCancelFromAnyState(t *testing.T) {
	sel := NewSelection(ModeProposingTimes, anchor)
	sel, _ = sel.PickCell(anchor.Add(time.Hour))
	sel, _ = sel.BeginSubmit()

	idle := sel.Cancel()
	if idle.State != StateIdle || len(idle.Proposed) != 0 {
		t.Errorf("cancel left residue: %+v", idle)
	}
}

func TestTransitionsRequireOpenSelection(t *testing.T) {
	idle := Selection{State: StateIdle, ChosenIndex: -1}

	if _, appErr := idle.PickCell(anchor); appErr == nil {
		t.Error("pick on idle accepted")
	}
	if _, appErr := idle.AdjustEnd(anchor.Add(time.Hour)); appErr == nil {
		t.Error("adjust on idle accepted")
	}
	if _, appErr := idle.BeginSubmit(); appErr == nil {
		t.Error("submit on idle accepted")
	}
}
