package calendar

import (
	"optimeet/core/database"
	"optimeet/core/middleware"
	appointmentService "optimeet/modules/appointment/service"
	"optimeet/modules/calendar/controller"
	"optimeet/modules/calendar/router"
	"optimeet/modules/calendar/service"
	scheduleRepo "optimeet/modules/schedule/repository"
	scheduleService "optimeet/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the calendar module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, schedSvc *scheduleService.ScheduleService, apptSvc *appointmentService.AppointmentService) *service.CalendarService {
	repo := scheduleRepo.NewScheduleRepository(db)
	svc := service.NewCalendarService(repo, schedSvc, apptSvc)
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
