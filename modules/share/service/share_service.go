package service

import (
	"context"
	"strings"
	"time"

	"optimeet/core/cache"
	"optimeet/core/config"
	"optimeet/core/errors"
	"optimeet/core/logger"
	"optimeet/core/utils"
	appointmentDto "optimeet/modules/appointment/dto"
	calendarDto "optimeet/modules/calendar/dto"
	"optimeet/modules/calendar/engine"
	scheduleDto "optimeet/modules/schedule/dto"
	scheduleEntity "optimeet/modules/schedule/entity"
	scheduleRepo "optimeet/modules/schedule/repository"
	"optimeet/modules/share/dto"
	"optimeet/modules/share/entity"
	"optimeet/modules/share/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// CalendarComposer is the slice of the calendar service the shared view needs.
type CalendarComposer interface {
	ComposeSharedView(granularity string, ref time.Time, delta int, schedules []scheduleEntity.Schedule) (*calendarDto.ViewResponse, *errors.AppError)
}

// ProposalSender is the slice of the appointment service the proposal path needs.
type ProposalSender interface {
	Create(ctx context.Context, senderID uuid.UUID, req *appointmentDto.CreateRequestRequest) (*appointmentDto.RequestResponse, *errors.AppError)
}

// ShareService handles public calendar share links
type ShareService struct {
	repo      repository.ShareRepositoryInterface
	schedRepo scheduleRepo.ScheduleRepositoryInterface
	cache     cache.Cache
	composer  CalendarComposer
	proposals ProposalSender
}

// ShareServiceInterface defines the service contract
type ShareServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateShareRequest) (*dto.ShareResponse, *errors.AppError)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]dto.ShareResponse, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) *errors.AppError
	GetSharedView(ctx context.Context, shareID string) (*dto.SharedViewResponse, *errors.AppError)
	GetSharedCalendar(ctx context.Context, shareID string, granularity string, ref time.Time, delta int) (*dto.SharedCalendarResponse, *errors.AppError)
	ProposeTimes(ctx context.Context, shareID string, senderID uuid.UUID, req *dto.ShareProposalRequest) (*appointmentDto.RequestResponse, *errors.AppError)
}

// NewShareService creates a new share service
func NewShareService(repo repository.ShareRepositoryInterface, schedRepo scheduleRepo.ScheduleRepositoryInterface, c cache.Cache, composer CalendarComposer, proposals ProposalSender) *ShareService {
	return &ShareService{repo: repo, schedRepo: schedRepo, cache: c, composer: composer, proposals: proposals}
}

// Create publishes a read-only share link. The link id is a slug of the label
// plus a random suffix, so it stays guessable-resistant while staying readable.
func (s *ShareService) Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateShareRequest) (*dto.ShareResponse, *errors.AppError) {
	if strings.TrimSpace(req.Label) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Label is required", nil)
	}

	var scheduleIDs entity.ScheduleIDs
	for _, raw := range req.ScheduleIDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid schedule ID: "+raw, parseErr)
		}
		scheduleIDs = append(scheduleIDs, id)
	}

	share := &entity.SharedSchedule{
		ShareID:     slug.Make(req.Label) + "-" + utils.GenerateShareID(),
		OwnerID:     ownerID,
		Label:       strings.TrimSpace(req.Label),
		ScheduleIDs: scheduleIDs,
	}

	created, err := s.repo.Create(ctx, share)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create share", err)
	}

	if err := s.cache.SetShareTarget(ctx, created.ShareID, ownerID.String()); err != nil {
		logger.Error("ShareService:Create:Cache", err)
	}

	return dto.ToShareResponse(created, config.Get().Server.BaseURL), nil
}

// ListByOwner returns the caller's share links
func (s *ShareService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]dto.ShareResponse, *errors.AppError) {
	shares, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list shares", err)
	}

	baseURL := config.Get().Server.BaseURL
	result := make([]dto.ShareResponse, 0, len(shares))
	for i := range shares {
		result = append(result, *dto.ToShareResponse(&shares[i], baseURL))
	}
	return result, nil
}

// Delete revokes a share link
func (s *ShareService) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) *errors.AppError {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete share", err)
	}
	return nil
}

// GetSharedView resolves a share link for an anonymous visitor. Owner ids are
// blanked before the response leaves the service.
func (s *ShareService) GetSharedView(ctx context.Context, shareID string) (*dto.SharedViewResponse, *errors.AppError) {
	share, appErr := s.resolveShare(ctx, shareID)
	if appErr != nil {
		return nil, appErr
	}

	visible, appErr := s.visibleSchedules(ctx, share)
	if appErr != nil {
		return nil, appErr
	}

	responses := scheduleDto.ToScheduleResponses(visible)
	for i := range responses {
		responses[i].OwnerID = ""
	}

	return &dto.SharedViewResponse{
		ShareID:   share.ShareID,
		Label:     share.Label,
		Schedules: responses,
	}, nil
}

// GetSharedCalendar composes a read-only grid behind a share link. The view
// comes from the same composer as the owner's calendar, with schedule
// creation switched off and time proposals left on.
func (s *ShareService) GetSharedCalendar(ctx context.Context, shareID string, granularity string, ref time.Time, delta int) (*dto.SharedCalendarResponse, *errors.AppError) {
	share, appErr := s.resolveShare(ctx, shareID)
	if appErr != nil {
		return nil, appErr
	}

	visible, appErr := s.visibleSchedules(ctx, share)
	if appErr != nil {
		return nil, appErr
	}

	view, appErr := s.composer.ComposeSharedView(granularity, ref, delta, visible)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.SharedCalendarResponse{
		ShareID: share.ShareID,
		Label:   share.Label,
		View:    view,
	}, nil
}

// ProposeTimes sends an appointment request to the calendar's owner. The
// receiver comes from the share resolution only. Proposed slots are checked
// against the owner's entries up front, mirroring the occupied cells of the
// shared grid.
func (s *ShareService) ProposeTimes(ctx context.Context, shareID string, senderID uuid.UUID, req *dto.ShareProposalRequest) (*appointmentDto.RequestResponse, *errors.AppError) {
	share, appErr := s.resolveShare(ctx, shareID)
	if appErr != nil {
		return nil, appErr
	}
	if share.OwnerID == senderID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Cannot propose times on your own calendar", nil)
	}

	existing, err := s.schedRepo.ListByOwner(ctx, share.OwnerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load schedules", err)
	}
	intervals := engine.IntervalsOf(existing)
	for _, pt := range req.ProposedTimes {
		if engine.HasConflict(engine.Interval{Start: pt.Start, End: pt.End}, intervals) {
			return nil, errors.NewAppError(errors.ErrScheduleConflict, "A proposed time overlaps the calendar owner's entries", nil)
		}
	}

	return s.proposals.Create(ctx, senderID, &appointmentDto.CreateRequestRequest{
		ReceiverID:    share.OwnerID.String(),
		Title:         req.Title,
		Message:       req.Message,
		ProposedTimes: req.ProposedTimes,
	})
}

// resolveShare looks a link up by its public id. The cache answers the hot
// existence check; the full record always comes from the database.
func (s *ShareService) resolveShare(ctx context.Context, shareID string) (*entity.SharedSchedule, *errors.AppError) {
	if _, found, err := s.cache.GetShareTarget(ctx, shareID); err != nil {
		logger.Error("ShareService:ResolveShare:Cache", err)
	} else if !found {
		// Cold cache is not a miss; fall through to the database.
		logger.Debug("share target not cached", "share_id", shareID)
	}

	share, err := s.repo.GetByShareID(ctx, shareID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to resolve share", err)
	}
	if share == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Share link not found", nil)
	}

	if err := s.cache.SetShareTarget(ctx, share.ShareID, share.OwnerID.String()); err != nil {
		logger.Error("ShareService:ResolveShare:Cache", err)
	}

	return share, nil
}

// visibleSchedules loads the entries a share exposes, restricted to the
// owner's own rows regardless of what ids the link carries.
func (s *ShareService) visibleSchedules(ctx context.Context, share *entity.SharedSchedule) ([]scheduleEntity.Schedule, *errors.AppError) {
	var schedules []scheduleEntity.Schedule
	var err error
	if len(share.ScheduleIDs) == 0 {
		schedules, err = s.schedRepo.ListByOwner(ctx, share.OwnerID)
	} else {
		schedules, err = s.schedRepo.GetByIDs(ctx, share.ScheduleIDs)
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load shared schedules", err)
	}

	visible := make([]scheduleEntity.Schedule, 0, len(schedules))
	for i := range schedules {
		if schedules[i].OwnerID == share.OwnerID {
			visible = append(visible, schedules[i])
		}
	}
	return visible, nil
}
