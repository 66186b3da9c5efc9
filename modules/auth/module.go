package auth

import (
	"optimeet/core/cache"
	"optimeet/core/database"
	"optimeet/core/middleware"
	"optimeet/modules/auth/controller"
	"optimeet/modules/auth/repository"
	"optimeet/modules/auth/router"
	"optimeet/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, c cache.Cache) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	rtr.Setup(e, mw)
}
