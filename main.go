package main

import (
	"optimeet/core/logger"
	"optimeet/core/server"
)

// @title Optimeet API
// @version 1.0
// @description Backend for the Optimeet scheduling calendar

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
