package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/analysis"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/api"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/augment"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/config"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/monitoring"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/notifications"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/scheduler"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting live chat engagement analyzer")

	ctx := context.Background()

	// Initialize transcript storage
	storageClient, err := newStorage(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	// Optional topic augmentation
	var themes analysis.ThemeSource
	if cfg.AugmentationEnabled() {
		augmenter, err := augment.NewGeminiAugmenter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logrus.Warnf("Topic augmentation disabled: %v", err)
		} else {
			themes = augmenter
			logrus.Info("Topic augmentation enabled")
		}
	}
	analyzer := analysis.NewAnalyzer(cfg.AnalysisOptions(), themes)

	// Initialize notification services
	notificationService := notifications.NewService(cfg)

	// Initialize analysis service
	monitoringService := monitoring.NewService(cfg, storageClient, notificationService, analyzer)

	// Initialize scheduler
	schedulerService := scheduler.NewService(cfg, monitoringService)

	// Start scheduler
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.NewRouter(monitoringService),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageBackend == config.StorageAzure {
		return storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
	}
	return storage.NewLocalStorage(cfg.DataDir)
}
