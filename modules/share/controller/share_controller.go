package controller

import (
	"strconv"
	"time"

	"optimeet/core/constants"
	"optimeet/core/controller"
	"optimeet/core/errors"
	"optimeet/core/utils"
	"optimeet/modules/share/dto"
	"optimeet/modules/share/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ShareController handles share link HTTP requests
type ShareController struct {
	controller.BaseController
	ShareService service.ShareServiceInterface
}

// NewShareController creates a new controller
func NewShareController(svc service.ShareServiceInterface) *ShareController {
	return &ShareController{
		BaseController: controller.NewBaseController(),
		ShareService:   svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *ShareController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Create handles POST /shares
// @Summary Publish a share link
// @Description Creates a public read-only link onto the caller's calendar
// @Tags Share
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateShareRequest true "Share details"
// @Success 200 {object} dto.ShareResponse
// @Failure 400 {object} errors.AppError
// @Router /private/shares [post]
func (c *ShareController) Create(ctx echo.Context) error {
	ownerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateShareRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ShareService.Create(ctx.Request().Context(), ownerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Share link created")
}

// List handles GET /shares
// @Summary List share links
// @Tags Share
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ShareResponse
// @Router /private/shares [get]
func (c *ShareController) List(ctx echo.Context) error {
	ownerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ShareService.ListByOwner(ctx.Request().Context(), ownerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Delete handles DELETE /shares/:id
// @Summary Revoke a share link
// @Tags Share
// @Security BearerAuth
// @Param id path string true "Share ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/shares/{id} [delete]
func (c *ShareController) Delete(ctx echo.Context) error {
	ownerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid share ID")
	}

	if appErr := c.ShareService.Delete(ctx.Request().Context(), id, ownerID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Share link revoked")
}

// GetSharedView handles GET /shared/:shareId (public, no auth)
// @Summary View a shared calendar
// @Description Returns the read-only calendar behind a share link
// @Tags Share
// @Produce json
// @Param shareId path string true "Share link id"
// @Success 200 {object} dto.SharedViewResponse
// @Failure 404 {object} errors.AppError
// @Router /shared/{shareId} [get]
func (c *ShareController) GetSharedView(ctx echo.Context) error {
	shareID := ctx.Param("shareId")
	if shareID == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Share id is required")
	}

	result, appErr := c.ShareService.GetSharedView(ctx.Request().Context(), shareID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetSharedCalendar handles GET /shared/:shareId/view (public, no auth)
// @Summary View a shared calendar as a grid
// @Description Composes the read-only day/week/month/year grid behind a share link
// @Tags Share
// @Produce json
// @Param shareId path string true "Share link id"
// @Param granularity query string true "day, week, month or year"
// @Param date query string false "Reference date, RFC3339 (default now)"
// @Param delta query int false "Navigation steps relative to the reference"
// @Success 200 {object} dto.SharedCalendarResponse
// @Failure 404 {object} errors.AppError
// @Router /shared/{shareId}/view [get]
func (c *ShareController) GetSharedCalendar(ctx echo.Context) error {
	shareID := ctx.Param("shareId")
	if shareID == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Share id is required")
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

	result, appErr := c.ShareService.GetSharedCalendar(ctx.Request().Context(), shareID, granularity, ref, delta)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ProposeTimes handles POST /shared/:shareId/appointments
// @Summary Propose appointment times on a shared calendar
// @Description Sends an appointment request to the calendar's owner; the receiver is resolved from the share link
// @Tags Share
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param shareId path string true "Share link id"
// @Param request body dto.ShareProposalRequest true "Proposal details"
// @Success 200 {object} appointmentDto.RequestResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /shared/{shareId}/appointments [post]
func (c *ShareController) ProposeTimes(ctx echo.Context) error {
	senderID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	shareID := ctx.Param("shareId")
	if shareID == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Share id is required")
	}

	var req dto.ShareProposalRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ShareService.ProposeTimes(ctx.Request().Context(), shareID, senderID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Appointment request sent")
}
