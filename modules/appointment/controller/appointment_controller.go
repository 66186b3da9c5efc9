package controller

import (
	"optimeet/core/constants"
	"optimeet/core/controller"
	"optimeet/core/errors"
	"optimeet/core/utils"
	"optimeet/modules/appointment/dto"
	"optimeet/modules/appointment/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AppointmentController handles appointment request HTTP requests
type AppointmentController struct {
	controller.BaseController
	AppointmentService service.AppointmentServiceInterface
}

// NewAppointmentController creates a new controller
func NewAppointmentController(svc service.AppointmentServiceInterface) *AppointmentController {
	return &AppointmentController{
		BaseController:     controller.NewBaseController(),
		AppointmentService: svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *AppointmentController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// Create handles POST /appointments
// @Summary Send an appointment request
// @Description Sends a set of proposed times to another user; the sender is the authenticated user
// @Tags Appointment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Request details"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} errors.AppError
// @Router /private/appointments [post]
func (c *AppointmentController) Create(ctx echo.Context) error {
	senderID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateRequestRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AppointmentService.Create(ctx.Request().Context(), senderID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Appointment request sent")
}

// ListReceived handles GET /appointments/received
// @Summary List received appointment requests
// @Tags Appointment
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.RequestResponse
// @Router /private/appointments/received [get]
func (c *AppointmentController) ListReceived(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AppointmentService.ListReceived(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListSent handles GET /appointments/sent
// @Summary List sent appointment requests
// @Tags Appointment
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.RequestResponse
// @Router /private/appointments/sent [get]
func (c *AppointmentController) ListSent(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AppointmentService.ListSent(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Accept handles POST /appointments/:id/accept
// @Summary Accept an appointment request
// @Description Accepts one proposed time, creating a calendar entry unless it conflicts
// @Tags Appointment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.AcceptRequestRequest true "Selected time index"
// @Success 200 {object} dto.AcceptResponse
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/appointments/{id}/accept [post]
func (c *AppointmentController) Accept(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	var req dto.AcceptRequestRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AppointmentService.Accept(ctx.Request().Context(), requestID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Appointment accepted")
}

// Reject handles POST /appointments/:id/reject
// @Summary Reject an appointment request
// @Tags Appointment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} errors.AppError
// @Router /private/appointments/{id}/reject [post]
func (c *AppointmentController) Reject(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	result, appErr := c.AppointmentService.Reject(ctx.Request().Context(), requestID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Appointment rejected")
}
