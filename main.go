// File: /main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"globe-travel-api/config"
	"globe-travel-api/database"
	"globe-travel-api/jobs"
	"globe-travel-api/logging"
	"globe-travel-api/middleware"
	"globe-travel-api/routes"
	"globe-travel-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize database
	store, err := database.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler(!cfg.IsProduction()))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(routes.SetupCORS(cfg))

	sessions := services.NewSessionService(store, cfg.SessionSecret, cfg.SessionTTL)
	emailService := services.NewEmailService(cfg)

	if err := routes.SetupRoutes(router, store, cfg, sessions, emailService); err != nil {
		logging.Fatal().Err(err).Msg("Failed to set up routes")
	}

	cleanupJob := jobs.NewSessionCleanupJob(sessions, time.Hour)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Str("backend", string(store.Backend())).
			Msg("Starting Globe Travel API server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
	}
}
