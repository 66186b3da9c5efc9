package appointment

import (
	"optimeet/core/database"
	"optimeet/core/middleware"
	"optimeet/modules/appointment/controller"
	"optimeet/modules/appointment/repository"
	"optimeet/modules/appointment/router"
	"optimeet/modules/appointment/service"
	scheduleRepo "optimeet/modules/schedule/repository"
	notifService "optimeet/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the appointment module and returns the service for use by other modules
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, notifSvc *notifService.NotificationService) *service.AppointmentService {
	repo := repository.NewAppointmentRepository(db)
	schedRepo := scheduleRepo.NewScheduleRepository(db)
	svc := service.NewAppointmentService(repo, schedRepo, notifSvc)
	ctrl := controller.NewAppointmentController(svc)
	rtr := router.NewAppointmentRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
