package service

import (
	"context"
	"testing"
	"time"

	"optimeet/core/errors"
	appointmentDto "optimeet/modules/appointment/dto"
	"optimeet/modules/calendar/dto"
	"optimeet/modules/calendar/engine"
	scheduleDto "optimeet/modules/schedule/dto"
	scheduleEntity "optimeet/modules/schedule/entity"

	"github.com/google/uuid"
)

var calNow = time.Date(2026, time.March, 10, 10, 30, 0, 0, time.UTC)

type fakeViewRepo struct {
	schedules []scheduleEntity.Schedule
}

func (f *fakeViewRepo) Create(ctx context.Context, s *scheduleEntity.Schedule) (*scheduleEntity.Schedule, error) {
	return s, nil
}

func (f *fakeViewRepo) GetByID(ctx context.Context, id uuid.UUID) (*scheduleEntity.Schedule, error) {
	return nil, nil
}

func (f *fakeViewRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]scheduleEntity.Schedule, error) {
	var out []scheduleEntity.Schedule
	for _, s := range f.schedules {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeViewRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]scheduleEntity.Schedule, error) {
	return nil, nil
}

func (f *fakeViewRepo) UpdateStatuses(ctx context.Context, ownerID uuid.UUID, updates []scheduleEntity.StatusUpdate) (int, error) {
	return 0, nil
}

func (f *fakeViewRepo) ListActive(ctx context.Context) ([]scheduleEntity.Schedule, error) {
	return f.schedules, nil
}

func (f *fakeViewRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return nil
}

type fakeScheduleCreator struct {
	created []scheduleDto.CreateScheduleRequest
	fail    *errors.AppError
}

func (f *fakeScheduleCreator) Create(ctx context.Context, ownerID uuid.UUID, req *scheduleDto.CreateScheduleRequest) (*scheduleDto.ScheduleResponse, *errors.AppError) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.created = append(f.created, *req)
	return &scheduleDto.ScheduleResponse{ID: uuid.New().String(), Title: req.Title}, nil
}

type fakeAppointmentCreator struct {
	created []appointmentDto.CreateRequestRequest
	fail    *errors.AppError
}

func (f *fakeAppointmentCreator) Create(ctx context.Context, senderID uuid.UUID, req *appointmentDto.CreateRequestRequest) (*appointmentDto.RequestResponse, *errors.AppError) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.created = append(f.created, *req)
	return &appointmentDto.RequestResponse{ID: uuid.New().String(), Title: req.Title}, nil
}

type calendarFixture struct {
	svc          *CalendarService
	repo         *fakeViewRepo
	schedules    *fakeScheduleCreator
	appointments *fakeAppointmentCreator
}

func newCalendarFixture() *calendarFixture {
	repo := &fakeViewRepo{}
	schedules := &fakeScheduleCreator{}
	appointments := &fakeAppointmentCreator{}
	svc := NewCalendarService(repo, schedules, appointments)
	svc.grid = &engine.GridEngine{Now: func() time.Time { return calNow }}
	svc.store.now = func() time.Time { return calNow }
	return &calendarFixture{svc: svc, repo: repo, schedules: schedules, appointments: appointments}
}

func futureCell(h int) time.Time {
	return time.Date(2026, time.March, 11, h, 0, 0, 0, time.UTC)
}

func TestViewGranularities(t *testing.T) {
	f := newCalendarFixture()
	userID := uuid.New()

	tests := []struct {
		granularity string
		selectable  bool
	}{
		{"day", true},
		{"week", true},
		{"month", false},
		{"year", false},
	}

	for _, tt := range tests {
		t.Run(tt.granularity, func(t *testing.T) {
			resp, appErr := f.svc.View(context.Background(), userID, tt.granularity, calNow, 0)
			if appErr != nil {
				t.Fatalf("view: %v", appErr)
			}
			if resp.Capabilities.CanSelectSlots != tt.selectable {
				t.Errorf("can_select_slots = %v, want %v", resp.Capabilities.CanSelectSlots, tt.selectable)
			}
			if resp.Capabilities.CanCreateSchedules != tt.selectable {
				t.Errorf("can_create_schedules = %v, want %v", resp.Capabilities.CanCreateSchedules, tt.selectable)
			}
			if resp.Capabilities.CanProposeTimes != tt.selectable {
				t.Errorf("can_propose_times = %v, want %v", resp.Capabilities.CanProposeTimes, tt.selectable)
			}
			if !resp.Capabilities.CanNavigate {
				t.Error("every view should be navigable")
			}
		})
	}

	if _, appErr := f.svc.View(context.Background(), userID, "fortnight", calNow, 0); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("unknown granularity: got %v, want %s", appErr, errors.ErrInvalidInput)
	}
}

func TestComposeSharedViewDisablesScheduleCreation(t *testing.T) {
	f := newCalendarFixture()

	entries := []scheduleEntity.Schedule{{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		StartTime: futureCell(9),
		EndTime:   futureCell(10),
	}}

	resp, appErr := f.svc.ComposeSharedView("day", futureCell(0), 0, entries)
	if appErr != nil {
		t.Fatalf("compose: %v", appErr)
	}
	if resp.Capabilities.CanCreateSchedules {
		t.Error("shared view must never allow schedule creation")
	}
	if !resp.Capabilities.CanSelectSlots || !resp.Capabilities.CanProposeTimes {
		t.Errorf("capabilities = %+v, want slot clicks and proposals enabled", resp.Capabilities)
	}
	if resp.Day == nil {
		t.Fatal("day grid missing")
	}
	if !resp.Day.Cells[9].Occupied {
		t.Error("shared entry not marked occupied")
	}

	month, appErr := f.svc.ComposeSharedView("month", futureCell(0), 0, entries)
	if appErr != nil {
		t.Fatalf("compose month: %v", appErr)
	}
	if month.Capabilities.CanSelectSlots || month.Capabilities.CanProposeTimes {
		t.Errorf("month capabilities = %+v, want navigation only", month.Capabilities)
	}

	if _, appErr := f.svc.ComposeSharedView("fortnight", futureCell(0), 0, nil); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("unknown granularity: got %v, want %s", appErr, errors.ErrInvalidInput)
	}
}

func TestViewNavigationShiftsReference(t *testing.T) {
	f := newCalendarFixture()

	resp, appErr := f.svc.View(context.Background(), uuid.New(), "month", calNow, 2)
	if appErr != nil {
		t.Fatalf("view: %v", appErr)
	}
	if resp.Reference.Month() != time.May {
		t.Errorf("reference month = %s, want May", resp.Reference.Month())
	}
	if resp.Month == nil {
		t.Fatal("month view missing its grid")
	}
}

func TestStartSelectionRejectsIneligibleCells(t *testing.T) {
	userID := uuid.New()
	f := newCalendarFixture()
	f.repo.schedules = []scheduleEntity.Schedule{{
		ID:        uuid.New(),
		OwnerID:   userID,
		StartTime: futureCell(14),
		EndTime:   futureCell(15),
	}}

	// Past cell.
	_, appErr := f.svc.StartSelection(context.Background(), userID, &dto.StartSelectionRequest{
		Mode:      string(engine.ModeCreatingSchedule),
		CellStart: calNow.Add(-2 * time.Hour),
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("past cell: got %v, want %s", appErr, errors.ErrInvalidInput)
	}

	// Occupied cell.
	_, appErr = f.svc.StartSelection(context.Background(), userID, &dto.StartSelectionRequest{
		Mode:      string(engine.ModeCreatingSchedule),
		CellStart: futureCell(14),
	})
	if appErr == nil || appErr.Code != errors.ErrScheduleConflict {
		t.Errorf("occupied cell: got %v, want %s", appErr, errors.ErrScheduleConflict)
	}

	// Unknown mode.
	_, appErr = f.svc.StartSelection(context.Background(), userID, &dto.StartSelectionRequest{
		Mode:      "browsing",
		CellStart: futureCell(9),
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("unknown mode: got %v, want %s", appErr, errors.ErrInvalidInput)
	}
}

func TestSubmitScheduleClosesSession(t *testing.T) {
	userID := uuid.New()
	f := newCalendarFixture()

	started, appErr := f.svc.StartSelection(context.Background(), userID, &dto.StartSelectionRequest{
		Mode:      string(engine.ModeCreatingSchedule),
		CellStart: futureCell(9),
	})
	if appErr != nil {
		t.Fatalf("start: %v", appErr)
	}
	sessionID := started.SessionID

	if _, appErr := f.svc.SetForm(context.Background(), userID, sessionID, &dto.SetFormRequest{
		Kind:  string(scheduleEntity.ScheduleKindTask),
		Title: "Deep work",
	}); appErr != nil {
		t.Fatalf("set form: %v", appErr)
	}

	resp, appErr := f.svc.Submit(context.Background(), userID, sessionID, &dto.SubmitRequest{})
	if appErr != nil {
		t.Fatalf("submit: %v", appErr)
	}
	if resp.Kind != "schedule" || resp.ScheduleID == "" {
		t.Errorf("submit response = %+v", resp)
	}

	if len(f.schedules.created) != 1 {
		t.Fatalf("created entries = %d, want exactly 1", len(f.schedules.created))
	}
	created := f.schedules.created[0]
	if created.Title != "Deep work" || !created.StartTime.Equal(futureCell(9)) || !created.EndTime.Equal(futureCell(10)) {
		t.Errorf("created entry = %+v", created)
	}

	// The session is gone; a repeat submit cannot double-create.
	if _, appErr := f.svc.Submit(context.Background(), userID, sessionID, &dto.SubmitRequest{}); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("repeat submit: got %v, want %s", appErr, errors.ErrNotFound)
	}
	if len(f.schedules.created) != 1 {
		t.Error("repeat submit created another entry")
	}
}

func TestSubmitFailureReopensEditing(t *testing.T) {
	userID := uuid.New()
	f := newCalendarFixture()

	started, _ := f.svc.StartSelection(context.Background(), userID, &dto.StartSelectionRequest{
		Mode:      string(engine.ModeCreatingSchedule),
		CellStart: futureCell(9),
	})
	sessionID := started.SessionID
	f.svc.SetForm(context.Background(), userID, sessionID, &dto.SetFormRequest{
		Kind:  string(scheduleEntity.ScheduleKindTask),
		Title: "Deep work",
	})

	f.schedules.fail = errors.NewAppError(errors.ErrInternalServer, "db down", nil)
	if _, appErr := f.svc.Submit(context.Background(), userID, sessionID, &dto.SubmitRequest{}); appErr == nil {
		t.Fatal("submit succeeded against a failing backend")
	}

	// The session survives in editing state, so a retry goes through.
	sel, appErr := f.svc.GetSelection(context.Background(), userID, sessionID)
	if appErr != nil {
		t.Fatalf("session lost after failed submit: %v", appErr)
	}
	if sel.Selection.State != engine.StateEditing {
		t.Errorf("state = %s, want %s", sel.Selection.State, engine.StateEditing)
	}

	f.schedules.fail = nil
	if _, appErr := f.svc.Submit(context.Background(), userID, sessionID, &dto.SubmitRequest{}); appErr != nil {
		t.Fatalf("retry: %v", appErr)
	}
	if len(f.schedules.created) != 1 {
		t.Errorf("created entries = %d, want 1 after retry", len(f.schedules.created))
	}
}

func TestSubmitProposal(t *testing.T) {
	userID := uuid.New()
	receiver := uuid.New()
	f := newCalendarFixture()

	started, _ := f.svc.StartSelection(context.Background(), userID, &dto.StartSelectionRequest{
		Mode:      string(engine.ModeProposingTimes),
		CellStart: futureCell(9),
	})
	sessionID := started.SessionID

	if _, appErr := f.svc.PickCell(context.Background(), userID, sessionID, &dto.PickCellRequest{CellStart: futureCell(14)}); appErr != nil {
		t.Fatalf("pick: %v", appErr)
	}
	if _, appErr := f.svc.SetMessage(context.Background(), userID, sessionID, &dto.SetMessageRequest{Message: "pick one"}); appErr != nil {
		t.Fatalf("message: %v", appErr)
	}

	// A proposal needs someone to send it to.
	if _, appErr := f.svc.Submit(context.Background(), userID, sessionID, &dto.SubmitRequest{Title: "Sync"}); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("missing receiver: got %v, want %s", appErr, errors.ErrInvalidInput)
	}

	resp, appErr := f.svc.Submit(context.Background(), userID, sessionID, &dto.SubmitRequest{
		ReceiverID: receiver.String(),
		Title:      "Sync",
	})
	if appErr != nil {
		t.Fatalf("submit: %v", appErr)
	}
	if resp.Kind != "appointment_request" || resp.RequestID == "" {
		t.Errorf("submit response = %+v", resp)
	}

	if len(f.appointments.created) != 1 {
		t.Fatalf("requests = %d, want 1", len(f.appointments.created))
	}
	req := f.appointments.created[0]
	if req.ReceiverID != receiver.String() || req.Message != "pick one" {
		t.Errorf("request = %+v", req)
	}
	if len(req.ProposedTimes) != 2 {
		t.Fatalf("proposed times = %d, want the seeded slot plus the picked one", len(req.ProposedTimes))
	}
	if !req.ProposedTimes[0].Start.Equal(futureCell(9)) || !req.ProposedTimes[1].Start.Equal(futureCell(14)) {
		t.Error("proposed times out of click order")
	}
}
