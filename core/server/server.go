package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"optimeet/core/cache"
	"optimeet/core/config"
	"optimeet/core/constants"
	"optimeet/core/database"
	"optimeet/core/logger"
	"optimeet/core/middleware"
	"optimeet/core/tasks"
	"optimeet/modules/appointment"
	"optimeet/modules/auth"
	"optimeet/modules/calendar"
	lifecycleService "optimeet/modules/lifecycle/service"
	"optimeet/modules/notification"
	"optimeet/modules/schedule"
	scheduleRepo "optimeet/modules/schedule/repository"
	"optimeet/modules/share"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires the whole application and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	c, err := cache.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer c.Close()

	client := tasks.NewClient(cfg.Redis)
	defer client.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	mw := middleware.NewMiddleware(c)

	// Module wiring. Notification first so the flows that emit can take it.
	notifSvc := notification.Init(e, db, mw, client)

	auth.Init(e, db, mw, c)
	schedSvc := schedule.Init(e, db, mw)
	apptSvc := appointment.Init(e, db, mw, notifSvc)
	calSvc := calendar.Init(e, db, mw, schedSvc, apptSvc)
	share.Init(e, db, mw, c, calSvc, apptSvc)

	// Background worker: notification delivery plus the periodic lifecycle
	// sweep that moves schedule statuses along with the clock.
	lifecycleSvc := lifecycleService.NewLifecycleService(scheduleRepo.NewScheduleRepository(db))

	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskNotificationDeliver, notifSvc.HandleDeliverTask)
	mux.HandleFunc(constants.TaskScheduleStatusSweep, lifecycleSvc.HandleSweepTask)

	worker := asynq.NewServer(tasks.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: 5,
	})
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("asynq worker stopped", err)
		}
	}()

	scheduler := asynq.NewScheduler(tasks.RedisOpt(cfg.Redis), nil)
	if _, err := scheduler.Register("@every 5m", tasks.NewStatusSweepTask()); err != nil {
		return fmt.Errorf("register status sweep: %w", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("asynq scheduler stopped", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("server listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	scheduler.Shutdown()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
