package notification

import (
	"optimeet/core/database"
	"optimeet/core/middleware"
	"optimeet/modules/notification/controller"
	"optimeet/modules/notification/repository"
	"optimeet/modules/notification/router"
	"optimeet/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, client *asynq.Client) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, client)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
