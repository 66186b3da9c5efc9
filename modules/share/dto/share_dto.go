package dto

import (
	"time"

	appointmentDto "optimeet/modules/appointment/dto"
	calendarDto "optimeet/modules/calendar/dto"
	scheduleDto "optimeet/modules/schedule/dto"
	"optimeet/modules/share/entity"
)

// ===================== Request DTOs =====================

// CreateShareRequest for publishing a read-only calendar link
type CreateShareRequest struct {
	Label       string   `json:"label" validate:"required"`
	ScheduleIDs []string `json:"schedule_ids"`
}

// ShareProposalRequest sends candidate times to the calendar behind a share
// link. The receiver is resolved from the link server-side; visitors never
// see or supply the owner's id.
type ShareProposalRequest struct {
	Title         string                           `json:"title" validate:"required"`
	Message       string                           `json:"message"`
	ProposedTimes []appointmentDto.ProposedTimeDTO `json:"proposed_times" validate:"required,min=1"`
}

// ===================== Response DTOs =====================

// ShareResponse for a share link
type ShareResponse struct {
	ID          string    `json:"id"`
	ShareID     string    `json:"share_id"`
	Label       string    `json:"label"`
	ScheduleIDs []string  `json:"schedule_ids,omitempty"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// SharedViewResponse is what an anonymous visitor sees behind a share link.
// Owner identity is reduced to the share label.
type SharedViewResponse struct {
	ShareID   string                         `json:"share_id"`
	Label     string                         `json:"label"`
	Schedules []scheduleDto.ScheduleResponse `json:"schedules"`
}

// SharedCalendarResponse is a composed grid over the shared entries. Its
// capabilities block carries the read-only discriminant: proposals on, never
// schedule creation.
type SharedCalendarResponse struct {
	ShareID string                    `json:"share_id"`
	Label   string                    `json:"label"`
	View    *calendarDto.ViewResponse `json:"view"`
}

// ===================== Mapper Functions =====================

// ToShareResponse maps entity to DTO
func ToShareResponse(s *entity.SharedSchedule, baseURL string) *ShareResponse {
	resp := &ShareResponse{
		ID:        s.ID.String(),
		ShareID:   s.ShareID,
		Label:     s.Label,
		URL:       baseURL + "/api/v1/shared/" + s.ShareID,
		CreatedAt: s.CreatedAt,
	}
	for _, id := range s.ScheduleIDs {
		resp.ScheduleIDs = append(resp.ScheduleIDs, id.String())
	}
	return resp
}
