package repository

import (
	"context"
	"database/sql"

	"optimeet/core/database"
	"optimeet/core/logger"
	"optimeet/modules/share/entity"

	"github.com/google/uuid"
)

// ShareRepository handles shared schedule database operations
type ShareRepository struct {
	DB database.Database
}

// NewShareRepository creates a new repository instance
func NewShareRepository(db database.Database) *ShareRepository {
	return &ShareRepository{DB: db}
}

// ShareRepositoryInterface defines the repository contract
type ShareRepositoryInterface interface {
	Create(ctx context.Context, share *entity.SharedSchedule) (*entity.SharedSchedule, error)
	GetByShareID(ctx context.Context, shareID string) (*entity.SharedSchedule, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.SharedSchedule, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

const shareColumns = `id, share_id, owner_id, label, schedule_ids, created_at, updated_at`

func (r *ShareRepository) Create(ctx context.Context, share *entity.SharedSchedule) (*entity.SharedSchedule, error) {
	query := `
		INSERT INTO shared_schedules (share_id, owner_id, label, schedule_ids)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + shareColumns + `
	`

	var created entity.SharedSchedule
	err := r.DB.GetContext(ctx, &created, query,
		share.ShareID, share.OwnerID, share.Label, share.ScheduleIDs)
	if err != nil {
		logger.Error("ShareRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *ShareRepository) GetByShareID(ctx context.Context, shareID string) (*entity.SharedSchedule, error) {
	query := `SELECT ` + shareColumns + ` FROM shared_schedules WHERE share_id = $1`

	var share entity.SharedSchedule
	err := r.DB.GetContext(ctx, &share, query, shareID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ShareRepository:GetByShareID", err)
		return nil, err
	}

	return &share, nil
}

func (r *ShareRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.SharedSchedule, error) {
	query := `
		SELECT ` + shareColumns + `
		FROM shared_schedules
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	var shares []entity.SharedSchedule
	err := r.DB.SelectContext(ctx, &shares, query, ownerID)
	if err != nil {
		logger.Error("ShareRepository:ListByOwner", err)
		return nil, err
	}

	return shares, nil
}

func (r *ShareRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM shared_schedules WHERE id = $1 AND owner_id = $2`
	err := r.DB.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		logger.Error("ShareRepository:Delete", err)
		return err
	}
	return nil
}
