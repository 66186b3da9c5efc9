package router

import (
	"optimeet/core/middleware"
	"optimeet/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

// ScheduleRouter handles calendar entry routes
type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

// NewScheduleRouter creates a new router
func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{
		ScheduleController: scheduleController,
	}
}

// Setup registers schedule routes
func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	scheduleRoutes := privateRoutes.Group("/schedules", mw.AuthMiddleware())

	scheduleRoutes.POST("", r.ScheduleController.Create)
	scheduleRoutes.GET("", r.ScheduleController.List)
	scheduleRoutes.GET("/export.ics", r.ScheduleController.ExportICS)
	scheduleRoutes.POST("/by-ids", r.ScheduleController.GetByIDs)
	scheduleRoutes.PATCH("/status", r.ScheduleController.UpdateStatuses)
	scheduleRoutes.GET("/:id", r.ScheduleController.Get)
	scheduleRoutes.DELETE("/:id", r.ScheduleController.Delete)
}
