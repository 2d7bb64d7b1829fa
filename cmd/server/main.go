package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/langscope/internal/handlers"
	"github.com/alimgiray/langscope/internal/middleware"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/internal/repositories"
	"github.com/alimgiray/langscope/internal/services"
	"github.com/alimgiray/langscope/internal/workers"
	"github.com/alimgiray/langscope/pkg/config"
	"github.com/alimgiray/langscope/pkg/database"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	logger.Init()

	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	if err := database.Init(cfg.Database.Path); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize dependencies
	languageService, err := services.NewLanguageServiceFromConfig(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize language analysis: %v", err)
	}
	reportRepo := repositories.NewReportRepository(database.DB)
	reportService := services.NewReportService(reportRepo)
	jobRepo := repositories.NewJobRepository(database.DB)
	jobService := services.NewJobService(jobRepo)

	// Initialize worker manager
	workerManager := workers.NewWorkerManager(jobRepo, languageService, reportService, cfg.Workers.Languages)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	handlers.SetupRoutes(router, handlers.Routes{
		Health:    handlers.NewHealthHandler(workerManager.GetWorkerStatus),
		Languages: handlers.NewLanguagesHandler(languageService, reportService),
		Jobs:      handlers.NewJobsHandler(jobService),
		Reports:   handlers.NewReportsHandler(reportService),
		NotFound:  handlers.NewNotFoundHandler(),
	}, cfg.Server.APIToken)

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		logger.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	// Start the scheduled refresh of configured logins
	scheduleMode, err := models.ParseAnalysisMode(cfg.Schedule.Mode)
	if err != nil {
		logger.Fatalf("Invalid SCHEDULE_MODE: %v", err)
	}
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	schedulerService := services.NewSchedulerService(jobService, cfg.Schedule.Logins, scheduleMode,
		time.Duration(cfg.Schedule.IntervalHours)*time.Hour)
	schedulerService.StartScheduler(schedulerCtx)

	// Setup server. Synchronous analyses can run long, so only reading the
	// request is bounded.
	server := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.WriteTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
