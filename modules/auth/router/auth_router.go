package router

import (
	"optimeet/core/middleware"
	"optimeet/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles authentication routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

// NewAuthRouter creates a new router
func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", r.AuthController.Register)
	authRoutes.POST("/login", r.AuthController.Login)
	authRoutes.POST("/refresh", r.AuthController.Refresh)

	privateRoutes := v1.Group("/private")
	privateAuth := privateRoutes.Group("/auth", mw.AuthMiddleware())
	privateAuth.POST("/logout", r.AuthController.Logout)
	privateAuth.GET("/me", r.AuthController.Me)
}
