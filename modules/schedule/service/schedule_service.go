package service

import (
	"context"
	"strings"
	"time"

	"optimeet/core/errors"
	"optimeet/modules/calendar/engine"
	"optimeet/modules/schedule/dto"
	"optimeet/modules/schedule/entity"
	"optimeet/modules/schedule/repository"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// ScheduleService handles calendar entry business logic
type ScheduleService struct {
	repo repository.ScheduleRepositoryInterface
	now  func() time.Time
}

// ScheduleServiceInterface defines the service contract
type ScheduleServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*dto.ScheduleResponse, *errors.AppError)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]dto.ScheduleResponse, *errors.AppError)
	GetByIDs(ctx context.Context, ownerID uuid.UUID, req *dto.GetByIDsRequest) ([]dto.ScheduleResponse, *errors.AppError)
	UpdateStatuses(ctx context.Context, ownerID uuid.UUID, req *dto.UpdateStatusesRequest) (*dto.UpdateStatusesResponse, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) *errors.AppError
	ExportICS(ctx context.Context, ownerID uuid.UUID) (string, *errors.AppError)
}

// NewScheduleService creates a new schedule service
func NewScheduleService(repo repository.ScheduleRepositoryInterface) *ScheduleService {
	return &ScheduleService{repo: repo, now: time.Now}
}

// Create validates and stores a new calendar entry. The candidate interval is
// checked against every existing entry of the owner; any overlap rejects the
// whole request.
func (s *ScheduleService) Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, *errors.AppError) {
	if appErr := validateCreate(req); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load schedules", err)
	}

	candidate := engine.Interval{Start: req.StartTime, End: normalizedEndOf(req)}
	if engine.HasConflict(candidate, engine.IntervalsOf(existing)) {
		return nil, errors.NewAppError(errors.ErrScheduleConflict, "The selected time overlaps an existing entry", nil)
	}

	schedule := &entity.Schedule{
		OwnerID:   ownerID,
		Kind:      entity.ScheduleKind(req.Kind),
		Title:     strings.TrimSpace(req.Title),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsAllDay:  req.IsAllDay,
		Repeat:    entity.RepeatFrequency(req.Repeat),
	}
	if schedule.Repeat == "" {
		schedule.Repeat = entity.RepeatNone
	}
	if req.Description != "" {
		schedule.Description = &req.Description
	}
	schedule.Status = entity.ComputeStatus(s.now(), schedule)

	created, err := s.repo.Create(ctx, schedule)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create schedule", err)
	}

	return dto.ToScheduleResponse(created), nil
}

// GetByID retrieves one entry, scoped to its owner
func (s *ScheduleService) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*dto.ScheduleResponse, *errors.AppError) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get schedule", err)
	}
	if schedule == nil || schedule.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Schedule not found", nil)
	}

	return dto.ToScheduleResponse(schedule), nil
}

// ListByOwner retrieves all entries of a user ordered by start time
func (s *ScheduleService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]dto.ScheduleResponse, *errors.AppError) {
	schedules, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list schedules", err)
	}

	return dto.ToScheduleResponses(schedules), nil
}

// GetByIDs retrieves a batch of entries by id, keeping only the caller's rows.
// Unknown ids are skipped, not errors.
func (s *ScheduleService) GetByIDs(ctx context.Context, ownerID uuid.UUID, req *dto.GetByIDsRequest) ([]dto.ScheduleResponse, *errors.AppError) {
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid schedule ID: "+raw, parseErr)
		}
		ids = append(ids, id)
	}

	schedules, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get schedules", err)
	}

	owned := make([]entity.Schedule, 0, len(schedules))
	for i := range schedules {
		if schedules[i].OwnerID == ownerID {
			owned = append(owned, schedules[i])
		}
	}

	return dto.ToScheduleResponses(owned), nil
}

// UpdateStatuses applies lifecycle status changes. Every update is forced onto
// the authenticated owner before reaching the repository, so a crafted request
// can never move another user's entries.
func (s *ScheduleService) UpdateStatuses(ctx context.Context, ownerID uuid.UUID, req *dto.UpdateStatusesRequest) (*dto.UpdateStatusesResponse, *errors.AppError) {
	updates := make([]entity.StatusUpdate, 0, len(req.Updates))
	for _, item := range req.Updates {
		id, parseErr := uuid.Parse(item.ID)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid schedule ID: "+item.ID, parseErr)
		}
		updates = append(updates, entity.StatusUpdate{
			ID:             id,
			OwnerID:        ownerID,
			FetchedStatus:  entity.LifecycleStatus(item.FetchedStatus),
			ComputedStatus: entity.LifecycleStatus(item.ComputedStatus),
		})
	}

	applied, err := s.repo.UpdateStatuses(ctx, ownerID, updates)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update statuses", err)
	}

	return &dto.UpdateStatusesResponse{Applied: applied}, nil
}

// Delete removes an entry owned by the caller
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) *errors.AppError {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get schedule", err)
	}
	if schedule == nil || schedule.OwnerID != ownerID {
		return errors.NewAppError(errors.ErrNotFound, "Schedule not found", nil)
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete schedule", err)
	}
	return nil
}

// ExportICS renders the owner's calendar as an iCalendar document. Entries
// keep their stored end time; consumers apply their own normalization.
func (s *ScheduleService) ExportICS(ctx context.Context, ownerID uuid.UUID) (string, *errors.AppError) {
	schedules, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to list schedules", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//optimeet//calendar//EN")

	for i := range schedules {
		sch := &schedules[i]
		ev := cal.AddEvent(sch.ID.String() + "@optimeet")
		ev.SetCreatedTime(sch.CreatedAt)
		ev.SetModifiedAt(sch.UpdatedAt)
		ev.SetSummary(sch.Title)
		if sch.Description != nil {
			ev.SetDescription(*sch.Description)
		}
		if sch.IsAllDay {
			ev.SetAllDayStartAt(sch.StartTime)
			ev.SetAllDayEndAt(sch.NormalizedEnd())
		} else {
			ev.SetStartAt(sch.StartTime)
			ev.SetEndAt(sch.NormalizedEnd())
		}
		ev.SetProperty(ical.ComponentProperty("X-OPTIMEET-KIND"), string(sch.Kind))
		ev.SetProperty(ical.ComponentProperty("X-OPTIMEET-STATUS"), string(sch.Status))
	}

	return cal.Serialize(), nil
}

func validateCreate(req *dto.CreateScheduleRequest) *errors.AppError {
	if strings.TrimSpace(req.Title) == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "Start and end times are required", nil)
	}
	if !entity.ValidKind(entity.ScheduleKind(req.Kind)) {
		return errors.NewAppError(errors.ErrInvalidInput, "Unknown schedule kind: "+req.Kind, nil)
	}
	if req.Repeat != "" {
		switch entity.RepeatFrequency(req.Repeat) {
		case entity.RepeatNone, entity.RepeatDaily, entity.RepeatWeekly, entity.RepeatMonthly:
		default:
			return errors.NewAppError(errors.ErrInvalidInput, "Unknown repeat frequency: "+req.Repeat, nil)
		}
	}
	return nil
}

// normalizedEndOf mirrors entity.NormalizedEnd for a not-yet-persisted request.
func normalizedEndOf(req *dto.CreateScheduleRequest) time.Time {
	if req.EndTime.After(req.StartTime) {
		return req.EndTime
	}
	return req.EndTime.AddDate(0, 0, 1)
}
