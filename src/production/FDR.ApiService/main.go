package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.ApiService/controllers"
	"gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.ApiService/storage"
	container "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Container"
	implementation "gitlab.com/pawsense1/fdr.feeder_server/src/production/FDR.Repository/Implementation"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewApiContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting Feeder Control Service")

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ctr.InitializeDatabase(ctx); err != nil {
		logger.FatalWithError(err, "Failed to initialize database")
	}

	// Get database connection
	db, err := ctr.GetDatabase()
	if err != nil {
		logger.FatalWithError(err, "Failed to get database connection")
	}

	// Create repositories
	cameraRepo := implementation.NewSqliteCameraRepository(db)
	moduleRepo := implementation.NewSqliteModuleRepository(db)
	scheduleRepo := implementation.NewSqliteScheduleRepository(db)
	historyRepo := implementation.NewSqliteHistoryRepository(db)

	// Get configuration
	config := ctr.GetConfig()

	// Image blob store for camera snapshots
	imageStore := storage.NewImageStore(config.Storage.ImagesDir)

	// Health checker
	healthChecker, err := ctr.GetHealthChecker()
	if err != nil {
		logger.FatalWithError(err, "Failed to initialize health checker")
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configure CORS from config
	corsConfig := cors.Config{
		AllowOrigins:     config.CORS.AllowedOrigins,
		AllowMethods:     config.CORS.AllowedMethods,
		AllowHeaders:     config.CORS.AllowedHeaders,
		ExposeHeaders:    config.CORS.ExposedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           time.Duration(config.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// Create controllers and register routes
	deviceController := controllers.NewDeviceController(scheduleRepo, moduleRepo, imageStore, logger)
	cameraController := controllers.NewCameraController(cameraRepo, logger)
	moduleController := controllers.NewModuleController(moduleRepo, logger)
	scheduleController := controllers.NewScheduleController(scheduleRepo, logger)
	historyController := controllers.NewHistoryController(historyRepo, logger)
	healthController := controllers.NewHealthController(healthChecker, logger)
	staticController := controllers.NewStaticController(config.Server.StaticDir)

	// Register all routes
	deviceController.RegisterRoutes(router)
	cameraController.RegisterRoutes(router)
	moduleController.RegisterRoutes(router)
	scheduleController.RegisterRoutes(router)
	historyController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)
	staticController.RegisterRoutes(router)

	// Get port from configuration
	port := config.Server.Port

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	logger.Info("Feeder control service running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}
}
