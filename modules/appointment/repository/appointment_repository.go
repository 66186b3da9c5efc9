package repository

import (
	"context"
	"database/sql"
	"time"

	"optimeet/core/database"
	"optimeet/core/logger"
	"optimeet/modules/appointment/entity"

	"github.com/google/uuid"
)

// AppointmentRepository handles appointment request database operations
type AppointmentRepository struct {
	DB database.Database
}

// NewAppointmentRepository creates a new repository instance
func NewAppointmentRepository(db database.Database) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

// AppointmentRepositoryInterface defines the repository contract
type AppointmentRepositoryInterface interface {
	Create(ctx context.Context, req *entity.AppointmentRequest) (*entity.AppointmentRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentRequest, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]entity.AppointmentRequest, error)
	ListBySender(ctx context.Context, senderID uuid.UUID) ([]entity.AppointmentRequest, error)
	UpdateResolution(ctx context.Context, id uuid.UUID, status entity.RequestStatus, selectedStart, selectedEnd *time.Time) error
}

const requestColumns = `id, sender_id, receiver_id, title, message, proposed_times, status,
	       selected_start, selected_end, responded_at, created_at, updated_at`

func (r *AppointmentRepository) Create(ctx context.Context, req *entity.AppointmentRequest) (*entity.AppointmentRequest, error) {
	query := `
		INSERT INTO appointment_requests (sender_id, receiver_id, title, message, proposed_times, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + requestColumns + `
	`

	var created entity.AppointmentRequest
	err := r.DB.GetContext(ctx, &created, query,
		req.SenderID, req.ReceiverID, req.Title, req.Message, req.ProposedTimes, req.Status)
	if err != nil {
		logger.Error("AppointmentRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM appointment_requests WHERE id = $1`

	var req entity.AppointmentRequest
	err := r.DB.GetContext(ctx, &req, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AppointmentRepository:GetByID", err)
		return nil, err
	}

	return &req, nil
}

func (r *AppointmentRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]entity.AppointmentRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM appointment_requests
		WHERE receiver_id = $1
		ORDER BY created_at DESC
	`

	var requests []entity.AppointmentRequest
	err := r.DB.SelectContext(ctx, &requests, query, receiverID)
	if err != nil {
		logger.Error("AppointmentRepository:ListByReceiver", err)
		return nil, err
	}

	return requests, nil
}

func (r *AppointmentRepository) ListBySender(ctx context.Context, senderID uuid.UUID) ([]entity.AppointmentRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM appointment_requests
		WHERE sender_id = $1
		ORDER BY created_at DESC
	`

	var requests []entity.AppointmentRequest
	err := r.DB.SelectContext(ctx, &requests, query, senderID)
	if err != nil {
		logger.Error("AppointmentRepository:ListBySender", err)
		return nil, err
	}

	return requests, nil
}

// UpdateResolution moves a request to its terminal status, recording the
// selected interval and response time.
func (r *AppointmentRepository) UpdateResolution(ctx context.Context, id uuid.UUID, status entity.RequestStatus, selectedStart, selectedEnd *time.Time) error {
	query := `
		UPDATE appointment_requests
		SET status = $1, selected_start = $2, selected_end = $3, responded_at = NOW(), updated_at = NOW()
		WHERE id = $4
	`
	err := r.DB.ExecContext(ctx, query, status, selectedStart, selectedEnd, id)
	if err != nil {
		logger.Error("AppointmentRepository:UpdateResolution", err)
		return err
	}
	return nil
}
