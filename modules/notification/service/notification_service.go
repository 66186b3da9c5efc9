package service

import (
	"context"
	"encoding/json"
	"time"

	coreEntity "optimeet/core/entity"
	"optimeet/core/logger"
	"optimeet/core/params"
	"optimeet/core/tasks"
	"optimeet/modules/notification/entity"
	"optimeet/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NotificationService stores notifications and hands delivery off to the
// asynq queue so request handlers never block on fan-out.
type NotificationService struct {
	repo   repository.NotificationRepositoryInterface
	client *asynq.Client
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, client *asynq.Client) *NotificationService {
	return &NotificationService{repo: repo, client: client}
}

// Notify enqueues a notification for background delivery. A queue failure is
// logged and swallowed: losing a notification must never fail the operation
// that produced it.
func (s *NotificationService) Notify(ctx context.Context, p tasks.NotificationPayload) {
	task, err := tasks.NewNotificationTask(p)
	if err != nil {
		logger.Error("NotificationService:Notify:Marshal", err)
		return
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		logger.Error("NotificationService:Notify:Enqueue", err)
	}
}

// HandleDeliverTask is the asynq handler that persists a queued notification.
func (s *NotificationService) HandleDeliverTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.NotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.Error("NotificationService:HandleDeliverTask:Unmarshal", err)
		return err
	}

	notif := &entity.Notification{
		UserID:  p.UserID,
		Title:   p.Title,
		Message: p.Message,
		Type:    p.Type,
		Data:    entity.JSONB(p.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	return s.repo.Create(ctx, notif)
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
