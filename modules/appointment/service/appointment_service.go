package service

import (
	"context"
	"strings"
	"time"

	"optimeet/core/errors"
	"optimeet/core/logger"
	"optimeet/core/tasks"
	"optimeet/modules/appointment/dto"
	"optimeet/modules/appointment/entity"
	"optimeet/modules/appointment/repository"
	"optimeet/modules/calendar/engine"
	scheduleEntity "optimeet/modules/schedule/entity"
	scheduleRepo "optimeet/modules/schedule/repository"

	"github.com/google/uuid"
)

// Notifier is the slice of the notification service the appointment flow needs.
type Notifier interface {
	Notify(ctx context.Context, p tasks.NotificationPayload)
}

// AppointmentService handles the request/accept/reject negotiation flow
type AppointmentService struct {
	repo      repository.AppointmentRepositoryInterface
	schedRepo scheduleRepo.ScheduleRepositoryInterface
	notifier  Notifier
	now       func() time.Time
}

// AppointmentServiceInterface defines the service contract
type AppointmentServiceInterface interface {
	Create(ctx context.Context, senderID uuid.UUID, req *dto.CreateRequestRequest) (*dto.RequestResponse, *errors.AppError)
	ListReceived(ctx context.Context, receiverID uuid.UUID) ([]dto.RequestResponse, *errors.AppError)
	ListSent(ctx context.Context, senderID uuid.UUID) ([]dto.RequestResponse, *errors.AppError)
	Accept(ctx context.Context, requestID uuid.UUID, receiverID uuid.UUID, req *dto.AcceptRequestRequest) (*dto.AcceptResponse, *errors.AppError)
	Reject(ctx context.Context, requestID uuid.UUID, receiverID uuid.UUID) (*dto.RequestResponse, *errors.AppError)
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(repo repository.AppointmentRepositoryInterface, schedRepo scheduleRepo.ScheduleRepositoryInterface, notifier Notifier) *AppointmentService {
	return &AppointmentService{
		repo:      repo,
		schedRepo: schedRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Create stores a new appointment request. The sender identity comes from the
// authenticated token only; the request body cannot impersonate another user.
func (s *AppointmentService) Create(ctx context.Context, senderID uuid.UUID, req *dto.CreateRequestRequest) (*dto.RequestResponse, *errors.AppError) {
	receiverID, parseErr := uuid.Parse(req.ReceiverID)
	if parseErr != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid receiver ID", parseErr)
	}
	if receiverID == senderID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Cannot send an appointment request to yourself", nil)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if len(req.ProposedTimes) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "At least one proposed time is required", nil)
	}
	for _, pt := range req.ProposedTimes {
		if !pt.End.After(pt.Start) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Proposed end time must be after its start time", nil)
		}
	}

	proposed := make(entity.ProposedTimes, 0, len(req.ProposedTimes))
	for _, pt := range req.ProposedTimes {
		proposed = append(proposed, entity.ProposedTime{Start: pt.Start, End: pt.End})
	}

	request := &entity.AppointmentRequest{
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Title:         strings.TrimSpace(req.Title),
		ProposedTimes: proposed,
		Status:        entity.RequestStatusPending,
	}
	if req.Message != "" {
		request.Message = &req.Message
	}

	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create appointment request", err)
	}

	s.notifier.Notify(ctx, tasks.NotificationPayload{
		UserID:  receiverID,
		Title:   "New appointment request",
		Message: created.Title,
		Type:    "appointment_request",
		Data:    map[string]any{"request_id": created.ID.String()},
	})

	return dto.ToRequestResponse(created), nil
}

// ListReceived returns requests addressed to the user, newest first
func (s *AppointmentService) ListReceived(ctx context.Context, receiverID uuid.UUID) ([]dto.RequestResponse, *errors.AppError) {
	requests, err := s.repo.ListByReceiver(ctx, receiverID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list requests", err)
	}
	return dto.ToRequestResponses(requests), nil
}

// ListSent returns requests the user has sent, newest first
func (s *AppointmentService) ListSent(ctx context.Context, senderID uuid.UUID) ([]dto.RequestResponse, *errors.AppError) {
	requests, err := s.repo.ListBySender(ctx, senderID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list requests", err)
	}
	return dto.ToRequestResponses(requests), nil
}

// Accept resolves a pending request by picking one proposed time. The picked
// interval is checked against the receiver's calendar first; on conflict the
// request stays pending and nothing is written.
//
// Creating the calendar entry and resolving the request are two separate
// writes. If the second fails the schedule entry survives while the request
// stays pending; the error log below carries both ids so the pair can be
// reconciled by hand.
func (s *AppointmentService) Accept(ctx context.Context, requestID uuid.UUID, receiverID uuid.UUID, req *dto.AcceptRequestRequest) (*dto.AcceptResponse, *errors.AppError) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get request", err)
	}
	if request == nil || request.ReceiverID != receiverID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Appointment request not found", nil)
	}
	if request.Status != entity.RequestStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Request has already been resolved", nil)
	}
	if req.SelectedIndex < 0 || req.SelectedIndex >= len(request.ProposedTimes) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Selected time index out of range", nil)
	}

	selected := request.ProposedTimes[req.SelectedIndex]

	existing, err := s.schedRepo.ListByOwner(ctx, receiverID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load schedules", err)
	}
	candidate := engine.Interval{Start: selected.Start, End: selected.End}
	if engine.HasConflict(candidate, engine.IntervalsOf(existing)) {
		return nil, errors.NewAppError(errors.ErrScheduleConflict, "The selected time overlaps an existing entry", nil)
	}

	schedule := &scheduleEntity.Schedule{
		OwnerID:   receiverID,
		Kind:      scheduleEntity.ScheduleKindAppointment,
		Title:     request.Title,
		StartTime: selected.Start,
		EndTime:   selected.End,
		Repeat:    scheduleEntity.RepeatNone,
	}
	if request.Message != nil {
		schedule.Description = request.Message
	}
	schedule.Status = scheduleEntity.ComputeStatus(s.now(), schedule)

	created, err := s.schedRepo.Create(ctx, schedule)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create calendar entry", err)
	}

	if err := s.repo.UpdateResolution(ctx, requestID, entity.RequestStatusAccepted, &selected.Start, &selected.End); err != nil {
		logger.Error("AppointmentService:Accept:Resolution",
			"request_id", requestID.String(),
			"schedule_id", created.ID.String(),
			"error", err,
		)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Calendar entry created but request resolution failed", err)
	}

	resolved, err := s.repo.GetByID(ctx, requestID)
	if err != nil || resolved == nil {
		resolved = request
		resolved.Status = entity.RequestStatusAccepted
		resolved.SelectedStart = &selected.Start
		resolved.SelectedEnd = &selected.End
	}

	s.notifier.Notify(ctx, tasks.NotificationPayload{
		UserID:  request.SenderID,
		Title:   "Appointment accepted",
		Message: request.Title,
		Type:    "appointment_accepted",
		Data: map[string]any{
			"request_id":  requestID.String(),
			"schedule_id": created.ID.String(),
		},
	})

	return &dto.AcceptResponse{
		Request:    dto.ToRequestResponse(resolved),
		ScheduleID: created.ID.String(),
	}, nil
}

// Reject resolves a pending request without creating any calendar entry
func (s *AppointmentService) Reject(ctx context.Context, requestID uuid.UUID, receiverID uuid.UUID) (*dto.RequestResponse, *errors.AppError) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get request", err)
	}
	if request == nil || request.ReceiverID != receiverID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Appointment request not found", nil)
	}
	if request.Status != entity.RequestStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Request has already been resolved", nil)
	}

	if err := s.repo.UpdateResolution(ctx, requestID, entity.RequestStatusRejected, nil, nil); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to reject request", err)
	}

	request.Status = entity.RequestStatusRejected

	s.notifier.Notify(ctx, tasks.NotificationPayload{
		UserID:  request.SenderID,
		Title:   "Appointment declined",
		Message: request.Title,
		Type:    "appointment_rejected",
		Data:    map[string]any{"request_id": requestID.String()},
	})

	return dto.ToRequestResponse(request), nil
}
