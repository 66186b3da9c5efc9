package repository

import (
	"context"
	"database/sql"

	"optimeet/core/database"
	"optimeet/core/logger"
	"optimeet/modules/schedule/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ScheduleRepository handles schedule database operations
type ScheduleRepository struct {
	DB database.Database
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(db database.Database) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

// ScheduleRepositoryInterface defines the repository contract
type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, schedule *entity.Schedule) (*entity.Schedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Schedule, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Schedule, error)
	UpdateStatuses(ctx context.Context, ownerID uuid.UUID, updates []entity.StatusUpdate) (int, error)
	ListActive(ctx context.Context) ([]entity.Schedule, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

const scheduleColumns = `id, owner_id, kind, title, description, start_time, end_time,
	       is_all_day, repeat_frequency, status, created_at, updated_at`

func (r *ScheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) (*entity.Schedule, error) {
	query := `
		INSERT INTO schedules (owner_id, kind, title, description, start_time, end_time, is_all_day, repeat_frequency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + scheduleColumns + `
	`

	var created entity.Schedule
	err := r.DB.GetContext(ctx, &created, query,
		schedule.OwnerID, schedule.Kind, schedule.Title, schedule.Description,
		schedule.StartTime, schedule.EndTime, schedule.IsAllDay, schedule.Repeat, schedule.Status)
	if err != nil {
		logger.Error("ScheduleRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	var schedule entity.Schedule
	err := r.DB.GetContext(ctx, &schedule, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ScheduleRepository:GetByID", err)
		return nil, err
	}

	return &schedule, nil
}

func (r *ScheduleRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE owner_id = $1
		ORDER BY start_time ASC
	`

	var schedules []entity.Schedule
	err := r.DB.SelectContext(ctx, &schedules, query, ownerID)
	if err != nil {
		logger.Error("ScheduleRepository:ListByOwner", err)
		return nil, err
	}

	return schedules, nil
}

func (r *ScheduleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Schedule, error) {
	if len(ids) == 0 {
		return []entity.Schedule{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+scheduleColumns+` FROM schedules WHERE id IN (?) ORDER BY start_time ASC`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.SQLx().Rebind(query)

	var schedules []entity.Schedule
	err = r.DB.SelectContext(ctx, &schedules, query, args...)
	if err != nil {
		logger.Error("ScheduleRepository:GetByIDs", err)
		return nil, err
	}

	return schedules, nil
}

// UpdateStatuses applies computed lifecycle statuses. Rows are filtered to the
// given owner before applying, so a caller can never move another user's
// entries. Returns how many rows the database actually changed; an entry
// deleted between fetch and update matches zero rows and is not counted.
func (r *ScheduleRepository) UpdateStatuses(ctx context.Context, ownerID uuid.UUID, updates []entity.StatusUpdate) (int, error) {
	applied := 0
	query := `UPDATE schedules SET status = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3`

	for _, u := range updates {
		if u.OwnerID != ownerID {
			continue
		}
		if u.ComputedStatus == u.FetchedStatus {
			continue
		}
		res, err := r.DB.SQLx().ExecContext(ctx, query, u.ComputedStatus, u.ID, ownerID)
		if err != nil {
			logger.Error("ScheduleRepository:UpdateStatuses", err)
			return applied, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			logger.Error("ScheduleRepository:UpdateStatuses", err)
			return applied, err
		}
		applied += int(n)
	}

	return applied, nil
}

// ListActive returns entries whose lifecycle status is still derivable from
// the clock, i.e. not cancelled. Used by the lifecycle sweep.
func (r *ScheduleRepository) ListActive(ctx context.Context) ([]entity.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE status != $1
		ORDER BY start_time ASC
	`

	var schedules []entity.Schedule
	err := r.DB.SelectContext(ctx, &schedules, query, entity.StatusCancelled)
	if err != nil {
		logger.Error("ScheduleRepository:ListActive", err)
		return nil, err
	}

	return schedules, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM schedules WHERE id = $1 AND owner_id = $2`
	err := r.DB.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		logger.Error("ScheduleRepository:Delete", err)
		return err
	}
	return nil
}
