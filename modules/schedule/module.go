package schedule

import (
	"optimeet/core/database"
	"optimeet/core/middleware"
	"optimeet/modules/schedule/controller"
	"optimeet/modules/schedule/repository"
	"optimeet/modules/schedule/router"
	"optimeet/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the schedule module and returns the service for use by other modules
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *service.ScheduleService {
	repo := repository.NewScheduleRepository(db)
	svc := service.NewScheduleService(repo)
	ctrl := controller.NewScheduleController(svc)
	rtr := router.NewScheduleRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
