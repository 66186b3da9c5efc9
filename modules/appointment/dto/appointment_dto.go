package dto

import (
	"time"

	"optimeet/modules/appointment/entity"
)

// ===================== Request DTOs =====================

// ProposedTimeDTO is one candidate interval
type ProposedTimeDTO struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// CreateRequestRequest for sending an appointment request. The sender is
// always the authenticated user; any sender field in the body is ignored.
type CreateRequestRequest struct {
	ReceiverID    string            `json:"receiver_id" validate:"required"`
	Title         string            `json:"title" validate:"required"`
	Message       string            `json:"message"`
	ProposedTimes []ProposedTimeDTO `json:"proposed_times" validate:"required,min=1"`
}

// AcceptRequestRequest picks which proposed time to accept
type AcceptRequestRequest struct {
	SelectedIndex int `json:"selected_index"`
}

// ===================== Response DTOs =====================

// RequestResponse for an appointment request
type RequestResponse struct {
	ID            string            `json:"id"`
	SenderID      string            `json:"sender_id"`
	ReceiverID    string            `json:"receiver_id"`
	Title         string            `json:"title"`
	Message       string            `json:"message,omitempty"`
	ProposedTimes []ProposedTimeDTO `json:"proposed_times"`
	Status        string            `json:"status"`
	SelectedStart *time.Time        `json:"selected_start,omitempty"`
	SelectedEnd   *time.Time        `json:"selected_end,omitempty"`
	RespondedAt   *time.Time        `json:"responded_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// AcceptResponse returns the resolved request plus the calendar entry it produced
type AcceptResponse struct {
	Request    *RequestResponse `json:"request"`
	ScheduleID string           `json:"schedule_id"`
}

// ===================== Mapper Functions =====================

// ToRequestResponse maps entity to DTO
func ToRequestResponse(r *entity.AppointmentRequest) *RequestResponse {
	resp := &RequestResponse{
		ID:            r.ID.String(),
		SenderID:      r.SenderID.String(),
		ReceiverID:    r.ReceiverID.String(),
		Title:         r.Title,
		Status:        string(r.Status),
		SelectedStart: r.SelectedStart,
		SelectedEnd:   r.SelectedEnd,
		RespondedAt:   r.RespondedAt,
		CreatedAt:     r.CreatedAt,
	}
	if r.Message != nil {
		resp.Message = *r.Message
	}
	resp.ProposedTimes = make([]ProposedTimeDTO, 0, len(r.ProposedTimes))
	for _, pt := range r.ProposedTimes {
		resp.ProposedTimes = append(resp.ProposedTimes, ProposedTimeDTO{Start: pt.Start, End: pt.End})
	}
	return resp
}

// ToRequestResponses maps a slice of entities
func ToRequestResponses(requests []entity.AppointmentRequest) []RequestResponse {
	result := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *ToRequestResponse(&requests[i]))
	}
	return result
}
