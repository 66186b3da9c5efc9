package router

import (
	"optimeet/core/middleware"
	"optimeet/modules/share/controller"

	"github.com/labstack/echo/v4"
)

// ShareRouter handles share link routes
type ShareRouter struct {
	ShareController *controller.ShareController
}

// NewShareRouter creates a new router
func NewShareRouter(shareController *controller.ShareController) *ShareRouter {
	return &ShareRouter{
		ShareController: shareController,
	}
}

// Setup registers share routes. The shared views are public; proposing times
// and link management require auth.
func (r *ShareRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.GET("/shared/:shareId", r.ShareController.GetSharedView)
	v1.GET("/shared/:shareId/view", r.ShareController.GetSharedCalendar)
	v1.POST("/shared/:shareId/appointments", r.ShareController.ProposeTimes, mw.AuthMiddleware())

	privateRoutes := v1.Group("/private")
	shareRoutes := privateRoutes.Group("/shares", mw.AuthMiddleware())
	shareRoutes.POST("", r.ShareController.Create)
	shareRoutes.GET("", r.ShareController.List)
	shareRoutes.DELETE("/:id", r.ShareController.Delete)
}
