package router

import (
	"optimeet/core/middleware"
	"optimeet/modules/appointment/controller"

	"github.com/labstack/echo/v4"
)

// AppointmentRouter handles appointment request routes
type AppointmentRouter struct {
	AppointmentController *controller.AppointmentController
}

// NewAppointmentRouter creates a new router
func NewAppointmentRouter(appointmentController *controller.AppointmentController) *AppointmentRouter {
	return &AppointmentRouter{
		AppointmentController: appointmentController,
	}
}

// Setup registers appointment routes
func (r *AppointmentRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	appointmentRoutes := privateRoutes.Group("/appointments", mw.AuthMiddleware())

	appointmentRoutes.POST("", r.AppointmentController.Create)
	appointmentRoutes.GET("/received", r.AppointmentController.ListReceived)
	appointmentRoutes.GET("/sent", r.AppointmentController.ListSent)
	appointmentRoutes.POST("/:id/accept", r.AppointmentController.Accept)
	appointmentRoutes.POST("/:id/reject", r.AppointmentController.Reject)
}
