package tasks

import (
	"encoding/json"

	"optimeet/core/config"
	"optimeet/core/constants"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// NotificationPayload is carried by notification:deliver tasks.
type NotificationPayload struct {
	UserID  uuid.UUID      `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data,omitempty"`
}

// NewNotificationTask builds the task that fans a notification out to a user.
func NewNotificationTask(p NotificationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskNotificationDeliver, payload), nil
}

// NewStatusSweepTask builds the periodic schedule lifecycle sweep task.
func NewStatusSweepTask() *asynq.Task {
	return asynq.NewTask(constants.TaskScheduleStatusSweep, nil)
}

// RedisOpt converts the app Redis config into asynq connection options.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient returns an asynq enqueue client.
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}
