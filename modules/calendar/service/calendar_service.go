package service

import (
	"context"
	"time"

	"optimeet/core/errors"
	appointmentDto "optimeet/modules/appointment/dto"
	"optimeet/modules/calendar/dto"
	"optimeet/modules/calendar/engine"
	scheduleDto "optimeet/modules/schedule/dto"
	scheduleEntity "optimeet/modules/schedule/entity"
	"optimeet/modules/schedule/repository"

	"github.com/google/uuid"
)

// ScheduleCreator is the slice of the schedule service the submit path needs.
type ScheduleCreator interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *scheduleDto.CreateScheduleRequest) (*scheduleDto.ScheduleResponse, *errors.AppError)
}

// AppointmentCreator is the slice of the appointment service the submit path needs.
type AppointmentCreator interface {
	Create(ctx context.Context, senderID uuid.UUID, req *appointmentDto.CreateRequestRequest) (*appointmentDto.RequestResponse, *errors.AppError)
}

// CalendarService composes calendar views and drives selection sessions from
// first click through submission.
type CalendarService struct {
	schedRepo    repository.ScheduleRepositoryInterface
	schedules    ScheduleCreator
	appointments AppointmentCreator
	store        *SelectionStore
	grid         *engine.GridEngine
}

// CalendarServiceInterface defines the service contract
type CalendarServiceInterface interface {
	View(ctx context.Context, userID uuid.UUID, granularity string, ref time.Time, delta int) (*dto.ViewResponse, *errors.AppError)
	ComposeSharedView(granularity string, ref time.Time, delta int, schedules []scheduleEntity.Schedule) (*dto.ViewResponse, *errors.AppError)
	StartSelection(ctx context.Context, userID uuid.UUID, req *dto.StartSelectionRequest) (*dto.SelectionResponse, *errors.AppError)
	GetSelection(ctx context.Context, userID uuid.UUID, sessionID string) (*dto.SelectionResponse, *errors.AppError)
	PickCell(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.PickCellRequest) (*dto.SelectionResponse, *errors.AppError)
	AdjustEnd(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.AdjustEndRequest) (*dto.SelectionResponse, *errors.AppError)
	SetForm(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.SetFormRequest) (*dto.SelectionResponse, *errors.AppError)
	SetMessage(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.SetMessageRequest) (*dto.SelectionResponse, *errors.AppError)
	AddProposedTime(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.AddProposedTimeRequest) (*dto.SelectionResponse, *errors.AppError)
	RemoveProposedTime(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.ProposedIndexRequest) (*dto.SelectionResponse, *errors.AppError)
	ChooseProposedTime(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.ProposedIndexRequest) (*dto.SelectionResponse, *errors.AppError)
	CancelSelection(ctx context.Context, userID uuid.UUID, sessionID string)
	Submit(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.SubmitRequest) (*dto.SubmitResponse, *errors.AppError)
}

// NewCalendarService creates a new calendar service
func NewCalendarService(schedRepo repository.ScheduleRepositoryInterface, schedules ScheduleCreator, appointments AppointmentCreator) *CalendarService {
	return &CalendarService{
		schedRepo:    schedRepo,
		schedules:    schedules,
		appointments: appointments,
		store:        NewSelectionStore(),
		grid:         engine.NewGridEngine(),
	}
}

// View builds one calendar view for its owner. Day and week grids carry
// per-hour occupancy and click eligibility; month and year grids are
// navigation surfaces only, which the capabilities block mirrors.
func (s *CalendarService) View(ctx context.Context, userID uuid.UUID, granularity string, ref time.Time, delta int) (*dto.ViewResponse, *errors.AppError) {
	g := engine.Granularity(granularity)
	if !engine.ValidGranularity(g) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown granularity: "+granularity, nil)
	}

	var schedules []scheduleEntity.Schedule
	if g == engine.GranularityDay || g == engine.GranularityWeek {
		var err error
		schedules, err = s.schedRepo.ListByOwner(ctx, userID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load schedules", err)
		}
	}

	hourly := g == engine.GranularityDay || g == engine.GranularityWeek
	return s.composeView(g, ref, delta, schedules, dto.ViewCapabilities{
		CanSelectSlots:     hourly,
		CanCreateSchedules: hourly,
		CanProposeTimes:    hourly,
		CanNavigate:        true,
	}), nil
}

// ComposeSharedView builds a view over someone else's entries for the shared
// calendar surface. Slot clicks stay enabled so a visitor can pick candidate
// times to propose; schedule creation is off.
func (s *CalendarService) ComposeSharedView(granularity string, ref time.Time, delta int, schedules []scheduleEntity.Schedule) (*dto.ViewResponse, *errors.AppError) {
	g := engine.Granularity(granularity)
	if !engine.ValidGranularity(g) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown granularity: "+granularity, nil)
	}

	hourly := g == engine.GranularityDay || g == engine.GranularityWeek
	return s.composeView(g, ref, delta, schedules, dto.ViewCapabilities{
		CanSelectSlots:     hourly,
		CanCreateSchedules: false,
		CanProposeTimes:    hourly,
		CanNavigate:        true,
	}), nil
}

func (s *CalendarService) composeView(g engine.Granularity, ref time.Time, delta int, schedules []scheduleEntity.Schedule, caps dto.ViewCapabilities) *dto.ViewResponse {
	if delta != 0 {
		ref = engine.Navigate(ref, g, delta)
	}

	resp := &dto.ViewResponse{
		Granularity:  string(g),
		Reference:    ref,
		Capabilities: caps,
	}

	switch g {
	case engine.GranularityDay:
		grid := s.grid.BuildDayGrid(ref, schedules)
		resp.Day = &grid
	case engine.GranularityWeek:
		grid := s.grid.BuildWeekGrid(ref, schedules)
		resp.Week = &grid
	case engine.GranularityMonth:
		grid := s.grid.BuildMonthGrid(ref)
		resp.Month = &grid
	case engine.GranularityYear:
		grid := s.grid.BuildYearGrid(ref)
		resp.Year = &grid
	}

	return resp
}

// StartSelection opens a session from an eligible cell. Past or occupied
// cells refuse the click with a 4xx, mirroring the non-clickable cell state.
func (s *CalendarService) StartSelection(ctx context.Context, userID uuid.UUID, req *dto.StartSelectionRequest) (*dto.SelectionResponse, *errors.AppError) {
	mode := engine.SelectionMode(req.Mode)
	if mode != engine.ModeCreatingSchedule && mode != engine.ModeProposingTimes {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown selection mode: "+req.Mode, nil)
	}

	if appErr := s.checkCellEligible(ctx, userID, req.CellStart); appErr != nil {
		return nil, appErr
	}

	sel := engine.NewSelection(mode, req.CellStart)
	sessionID := s.store.Create(userID, sel)

	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// GetSelection returns the current session state
func (s *CalendarService) GetSelection(ctx context.Context, userID uuid.UUID, sessionID string) (*dto.SelectionResponse, *errors.AppError) {
	sel, appErr := s.store.Get(sessionID, userID)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// PickCell registers a further cell click on an open session
func (s *CalendarService) PickCell(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.PickCellRequest) (*dto.SelectionResponse, *errors.AppError) {
	if appErr := s.checkCellEligible(ctx, userID, req.CellStart); appErr != nil {
		return nil, appErr
	}

	sel, appErr := s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
		return cur.PickCell(req.CellStart)
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// AdjustEnd moves the selection end; an end at or before the start keeps the
// previous value and reports the rejection
func (s *CalendarService) AdjustEnd(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.AdjustEndRequest) (*dto.SelectionResponse, *errors.AppError) {
	sel, appErr := s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
		return cur.AdjustEnd(req.End)
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// SetForm replaces the schedule-creation form fields
func (s *CalendarService) SetForm(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.SetFormRequest) (*dto.SelectionResponse, *errors.AppError) {
	sel, appErr := s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
		form := cur.Form
		if req.Kind != "" {
			form.Kind = scheduleEntity.ScheduleKind(req.Kind)
		}
		if req.Title != "" {
			form.Title = req.Title
		}
		form.Description = req.Description
		form.IsAllDay = req.IsAllDay
		if req.Repeat != "" {
			form.Repeat = scheduleEntity.RepeatFrequency(req.Repeat)
		}
		return cur.SetForm(form)
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// SetMessage attaches the proposal note
func (s *CalendarService) SetMessage(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.SetMessageRequest) (*dto.SelectionResponse, *errors.AppError) {
	sel, appErr := s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
		return cur.SetMessage(req.Message)
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// AddProposedTime appends an explicit candidate interval
func (s *CalendarService) AddProposedTime(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.AddProposedTimeRequest) (*dto.SelectionResponse, *errors.AppError) {
	sel, appErr := s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
		return cur.AddProposedTime(engine.Interval{Start: req.Start, End: req.End})
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// RemoveProposedTime drops one candidate interval
func (s *CalendarService) RemoveProposedTime(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.ProposedIndexRequest) (*dto.SelectionResponse, *errors.AppError) {
	sel, appErr := s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
		return cur.RemoveProposedTime(req.Index)
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// ChooseProposedTime marks one candidate as the primary suggestion
func (s *CalendarService) ChooseProposedTime(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.ProposedIndexRequest) (*dto.SelectionResponse, *errors.AppError) {
	sel, appErr := s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
		return cur.ChooseProposedTime(req.Index)
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SelectionResponse{SessionID: sessionID, Selection: sel}, nil
}

// CancelSelection discards a session
func (s *CalendarService) CancelSelection(ctx context.Context, userID uuid.UUID, sessionID string) {
	s.store.Delete(sessionID, userID)
}

// Submit finalizes a session. The in-flight guard flips first; a second
// submit racing the first sees SUBMISSION_IN_FLIGHT instead of creating a
// duplicate. On success the session closes; on failure it returns to editing
// so the user can resubmit.
func (s *CalendarService) Submit(ctx context.Context, userID uuid.UUID, sessionID string, req *dto.SubmitRequest) (*dto.SubmitResponse, *errors.AppError) {
	sel, appErr := s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
		return cur.BeginSubmit()
	})
	if appErr != nil {
		return nil, appErr
	}

	var resp *dto.SubmitResponse
	var submitErr *errors.AppError

	switch sel.Mode {
	case engine.ModeCreatingSchedule:
		resp, submitErr = s.submitSchedule(ctx, userID, sel)
	case engine.ModeProposingTimes:
		resp, submitErr = s.submitProposal(ctx, userID, sel, req)
	default:
		submitErr = errors.NewAppError(errors.ErrInternalServer, "Selection has no mode", nil)
	}

	if submitErr != nil {
		// Reopen for editing; a session closed in the meantime is left alone.
		s.store.Update(sessionID, userID, func(cur engine.Selection) (engine.Selection, *errors.AppError) {
			return cur.FailSubmit(), nil
		})
		return nil, submitErr
	}

	s.store.Delete(sessionID, userID)
	return resp, nil
}

func (s *CalendarService) submitSchedule(ctx context.Context, userID uuid.UUID, sel engine.Selection) (*dto.SubmitResponse, *errors.AppError) {
	created, appErr := s.schedules.Create(ctx, userID, &scheduleDto.CreateScheduleRequest{
		Kind:        string(sel.Form.Kind),
		Title:       sel.Form.Title,
		Description: sel.Form.Description,
		StartTime:   sel.Anchor,
		EndTime:     sel.End,
		IsAllDay:    sel.Form.IsAllDay,
		Repeat:      string(sel.Form.Repeat),
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SubmitResponse{Kind: "schedule", ScheduleID: created.ID}, nil
}

func (s *CalendarService) submitProposal(ctx context.Context, userID uuid.UUID, sel engine.Selection, req *dto.SubmitRequest) (*dto.SubmitResponse, *errors.AppError) {
	if req.ReceiverID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Receiver is required to send a proposal", nil)
	}

	proposed := make([]appointmentDto.ProposedTimeDTO, 0, len(sel.Proposed))
	for _, iv := range sel.Proposed {
		proposed = append(proposed, appointmentDto.ProposedTimeDTO{Start: iv.Start, End: iv.End})
	}

	created, appErr := s.appointments.Create(ctx, userID, &appointmentDto.CreateRequestRequest{
		ReceiverID:    req.ReceiverID,
		Title:         req.Title,
		Message:       sel.Message,
		ProposedTimes: proposed,
	})
	if appErr != nil {
		return nil, appErr
	}
	return &dto.SubmitResponse{Kind: "appointment_request", RequestID: created.ID}, nil
}

// checkCellEligible refuses clicks on past or occupied hour cells.
func (s *CalendarService) checkCellEligible(ctx context.Context, userID uuid.UUID, cellStart time.Time) *errors.AppError {
	if cellStart.Before(s.grid.Now()) {
		return errors.NewAppError(errors.ErrInvalidInput, "Cannot select a past time slot", nil)
	}

	schedules, err := s.schedRepo.ListByOwner(ctx, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load schedules", err)
	}
	if engine.Occupied(cellStart, schedules) {
		return errors.NewAppError(errors.ErrScheduleConflict, "The selected slot is already occupied", nil)
	}
	return nil
}
