package service

import (
	"context"
	"time"

	"optimeet/core/logger"
	"optimeet/modules/schedule/entity"
	"optimeet/modules/schedule/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// LifecycleService recomputes schedule statuses from the clock. It runs as a
// periodic background sweep; request handlers never mutate statuses directly.
type LifecycleService struct {
	repo repository.ScheduleRepositoryInterface
	now  func() time.Time
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(repo repository.ScheduleRepositoryInterface) *LifecycleService {
	return &LifecycleService{repo: repo, now: time.Now}
}

// Sweep loads every non-cancelled entry, diffs each computed status against
// the status read at fetch time, and applies only the changed rows grouped by
// owner. Returns how many rows were updated.
func (s *LifecycleService) Sweep(ctx context.Context) (int, error) {
	schedules, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	byOwner := make(map[uuid.UUID][]entity.StatusUpdate)
	for i := range schedules {
		sch := &schedules[i]
		computed := entity.ComputeStatus(now, sch)
		if computed == sch.Status {
			continue
		}
		byOwner[sch.OwnerID] = append(byOwner[sch.OwnerID], entity.StatusUpdate{
			ID:             sch.ID,
			OwnerID:        sch.OwnerID,
			FetchedStatus:  sch.Status,
			ComputedStatus: computed,
		})
	}

	applied := 0
	for ownerID, updates := range byOwner {
		n, err := s.repo.UpdateStatuses(ctx, ownerID, updates)
		applied += n
		if err != nil {
			logger.Error("LifecycleService:Sweep", "owner_id", ownerID.String(), "error", err)
			return applied, err
		}
	}

	if applied > 0 {
		logger.Info("lifecycle sweep applied status changes", "applied", applied)
	}
	return applied, nil
}

// HandleSweepTask is the asynq handler for the periodic status sweep.
func (s *LifecycleService) HandleSweepTask(ctx context.Context, _ *asynq.Task) error {
	_, err := s.Sweep(ctx)
	return err
}
