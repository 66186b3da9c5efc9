package router

import (
	"optimeet/core/middleware"
	"optimeet/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

// CalendarRouter handles calendar view and selection routes
type CalendarRouter struct {
	CalendarController *controller.CalendarController
}

// NewCalendarRouter creates a new router
func NewCalendarRouter(calendarController *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		CalendarController: calendarController,
	}
}

// Setup registers calendar routes
func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	calendarRoutes := privateRoutes.Group("/calendar", mw.AuthMiddleware())

	calendarRoutes.GET("/view", r.CalendarController.View)

	selections := calendarRoutes.Group("/selections")
	selections.POST("", r.CalendarController.StartSelection)
	selections.GET("/:id", r.CalendarController.GetSelection)
	selections.POST("/:id/cells", r.CalendarController.PickCell)
	selections.PATCH("/:id/end", r.CalendarController.AdjustEnd)
	selections.PATCH("/:id/form", r.CalendarController.SetForm)
	selections.PATCH("/:id/message", r.CalendarController.SetMessage)
	selections.POST("/:id/proposed-times", r.CalendarController.AddProposedTime)
	selections.DELETE("/:id/proposed-times", r.CalendarController.RemoveProposedTime)
	selections.PATCH("/:id/proposed-times/choose", r.CalendarController.ChooseProposedTime)
	selections.POST("/:id/submit", r.CalendarController.Submit)
	selections.DELETE("/:id", r.CalendarController.CancelSelection)
}
