package share

import (
	"optimeet/core/cache"
	"optimeet/core/database"
	"optimeet/core/middleware"
	appointmentService "optimeet/modules/appointment/service"
	calendarService "optimeet/modules/calendar/service"
	scheduleRepo "optimeet/modules/schedule/repository"
	"optimeet/modules/share/controller"
	"optimeet/modules/share/repository"
	"optimeet/modules/share/router"
	"optimeet/modules/share/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the share module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, c cache.Cache, calSvc *calendarService.CalendarService, apptSvc *appointmentService.AppointmentService) {
	repo := repository.NewShareRepository(db)
	schedRepo := scheduleRepo.NewScheduleRepository(db)
	svc := service.NewShareService(repo, schedRepo, c, calSvc, apptSvc)
	ctrl := controller.NewShareController(svc)
	rtr := router.NewShareRouter(ctrl)

	rtr.Setup(e, mw)
}
