package controller

import (
	"strconv"
	"time"

	"optimeet/core/constants"
	"optimeet/core/controller"
	"optimeet/core/errors"
	"optimeet/core/utils"
	"optimeet/modules/calendar/dto"
	"optimeet/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CalendarController handles calendar view and selection HTTP requests
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

// NewCalendarController creates a new controller
func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *CalendarController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// View handles GET /calendar/view
// @Summary Get a calendar view
// @Description Composes the day/week/month/year grid around a reference date
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param granularity query string true "day, week, month or year"
// @Param date query string false "Reference date, RFC3339 (default now)"
// @Param delta query int false "Navigation steps relative to the reference"
// @Success 200 {object} dto.ViewResponse
// @Failure 400 {object} errors.AppError
// @Router /private/calendar/view [get]
func (c *CalendarController) View(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	granularity := ctx.QueryParam("granularity")
	if granularity == "" {
		granularity = "week"
	}

	ref := time.Now()
	if raw := ctx.QueryParam("date"); raw != "" {
		parsed, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid date, expected RFC3339")
		}
		ref = parsed
	}

	delta := 0
	if raw := ctx.QueryParam("delta"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid delta")
		}
		delta = parsed
	}

	result, appErr := c.CalendarService.View(ctx.Request().Context(), userID, granularity, ref, delta)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// StartSelection handles POST /calendar/selections
// @Summary Start a selection session
// @Description Opens a selection from an eligible hour cell
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.StartSelectionRequest true "Mode and cell"
// @Success 200 {object} dto.SelectionResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/calendar/selections [post]
func (c *CalendarController) StartSelection(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.StartSelectionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.StartSelection(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Selection started")
}

// GetSelection handles GET /calendar/selections/:id
// @Summary Get a selection session
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SelectionResponse
// @Failure 404 {object} errors.AppError
// @Router /private/calendar/selections/{id} [get]
func (c *CalendarController) GetSelection(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.CalendarService.GetSelection(ctx.Request().Context(), userID, ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// PickCell handles POST /calendar/selections/:id/cells
// @Summary Register a further cell click
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.PickCellRequest true "Clicked cell"
// @Success 200 {object} dto.SelectionResponse
// @Router /private/calendar/selections/{id}/cells [post]
func (c *CalendarController) PickCell(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.PickCellRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.PickCell(ctx.Request().Context(), userID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// AdjustEnd handles PATCH /calendar/selections/:id/end
// @Summary Adjust the selection end time
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AdjustEndRequest true "New end time"
// @Success 200 {object} dto.SelectionResponse
// @Failure 400 {object} errors.AppError
// @Router /private/calendar/selections/{id}/end [patch]
func (c *CalendarController) AdjustEnd(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.AdjustEndRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.AdjustEnd(ctx.Request().Context(), userID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// SetForm handles PATCH /calendar/selections/:id/form
// @Summary Update the schedule form fields
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SetFormRequest true "Form fields"
// @Success 200 {object} dto.SelectionResponse
// @Router /private/calendar/selections/{id}/form [patch]
func (c *CalendarController) SetForm(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SetFormRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.SetForm(ctx.Request().Context(), userID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// SetMessage handles PATCH /calendar/selections/:id/message
// @Summary Update the proposal message
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SetMessageRequest true "Message"
// @Success 200 {object} dto.SelectionResponse
// @Router /private/calendar/selections/{id}/message [patch]
func (c *CalendarController) SetMessage(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SetMessageRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.SetMessage(ctx.Request().Context(), userID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// AddProposedTime handles POST /calendar/selections/:id/proposed-times
// @Summary Add a proposed time
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AddProposedTimeRequest true "Interval"
// @Success 200 {object} dto.SelectionResponse
// @Router /private/calendar/selections/{id}/proposed-times [post]
func (c *CalendarController) AddProposedTime(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.AddProposedTimeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.AddProposedTime(ctx.Request().Context(), userID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// RemoveProposedTime handles DELETE /calendar/selections/:id/proposed-times
// @Summary Remove a proposed time
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ProposedIndexRequest true "Index"
// @Success 200 {object} dto.SelectionResponse
// @Router /private/calendar/selections/{id}/proposed-times [delete]
func (c *CalendarController) RemoveProposedTime(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ProposedIndexRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.RemoveProposedTime(ctx.Request().Context(), userID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ChooseProposedTime handles PATCH /calendar/selections/:id/proposed-times/choose
// @Summary Choose the primary proposed time
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ProposedIndexRequest true "Index"
// @Success 200 {object} dto.SelectionResponse
// @Router /private/calendar/selections/{id}/proposed-times/choose [patch]
func (c *CalendarController) ChooseProposedTime(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ProposedIndexRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.ChooseProposedTime(ctx.Request().Context(), userID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Submit handles POST /calendar/selections/:id/submit
// @Summary Submit a selection
// @Description Creates the schedule entry or appointment request the session describes
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitRequest true "Submission details"
// @Success 200 {object} dto.SubmitResponse
// @Failure 409 {object} errors.AppError
// @Router /private/calendar/selections/{id}/submit [post]
func (c *CalendarController) Submit(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SubmitRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CalendarService.Submit(ctx.Request().Context(), userID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Submitted")
}

// CancelSelection handles DELETE /calendar/selections/:id
// @Summary Cancel a selection session
// @Tags Calendar
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/calendar/selections/{id} [delete]
func (c *CalendarController) CancelSelection(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	c.CalendarService.CancelSelection(ctx.Request().Context(), userID, ctx.Param("id"))

	return c.SuccessResponse(ctx, nil, "Selection cancelled")
}
