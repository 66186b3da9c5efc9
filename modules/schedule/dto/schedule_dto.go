package dto

import (
	"time"

	"optimeet/modules/schedule/entity"
)

// ===================== Request DTOs =====================

// CreateScheduleRequest for creating a new calendar entry
type CreateScheduleRequest struct {
	Kind        string    `json:"kind" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	IsAllDay    bool      `json:"is_all_day"`
	Repeat      string    `json:"repeat_frequency"`
}

// GetByIDsRequest for fetching a batch of entries
type GetByIDsRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

// StatusUpdateItem is one computed status change
type StatusUpdateItem struct {
	ID             string `json:"id" validate:"required"`
	FetchedStatus  string `json:"fetched_status" validate:"required"`
	ComputedStatus string `json:"computed_status" validate:"required"`
}

// UpdateStatusesRequest for applying lifecycle status changes
type UpdateStatusesRequest struct {
	Updates []StatusUpdateItem `json:"updates" validate:"required"`
}

// ===================== Response DTOs =====================

// ScheduleResponse for a single calendar entry
type ScheduleResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAllDay    bool      `json:"is_all_day"`
	Repeat      string    `json:"repeat_frequency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateStatusesResponse reports how many changes were applied
type UpdateStatusesResponse struct {
	Applied int `json:"applied"`
}

// ===================== Mapper Functions =====================

// ToScheduleResponse maps entity to DTO
func ToScheduleResponse(s *entity.Schedule) *ScheduleResponse {
	resp := &ScheduleResponse{
		ID:        s.ID.String(),
		OwnerID:   s.OwnerID.String(),
		Kind:      string(s.Kind),
		Title:     s.Title,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		IsAllDay:  s.IsAllDay,
		Repeat:    string(s.Repeat),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Description != nil {
		resp.Description = *s.Description
	}
	return resp
}

// ToScheduleResponses maps a slice of entities
func ToScheduleResponses(schedules []entity.Schedule) []ScheduleResponse {
	result := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, *ToScheduleResponse(&schedules[i]))
	}
	return result
}
