package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellcoach/coaching-api/internal/api"
	"wellcoach/coaching-api/internal/config"
	"wellcoach/coaching-api/internal/logging"
	"wellcoach/coaching-api/internal/planner"
	"wellcoach/coaching-api/internal/repository/mongo"
	"wellcoach/coaching-api/internal/service"
	"wellcoach/coaching-api/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("Configuration loaded", zap.String("address", cfg.Server.Address), zap.String("mode", cfg.Server.Mode))

	gin.SetMode(cfg.Server.Mode)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI, cfg.Database.ConnectTimeout)
	if err != nil {
		logger.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		logger.Info("Disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("Database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	// The unique indexes guard assessment and plan creation, so they must
	// exist before the first request is served.
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), time.Minute)
	err = mongo.EnsureIndexes(indexCtx, appDB)
	cancelIndexes()
	if err != nil {
		logger.Fatal("Index creation failed", zap.Error(err))
	}
	logger.Info("Index creation completed")

	// --- Planner tables ---
	tables, err := planner.LoadTables(cfg.Planner.TablesFile)
	if err != nil {
		logger.Fatal("Could not load planner tables", zap.Error(err))
	}
	plans := planner.New(tables)

	// --- Initialize Storage ---
	storageCtx, cancelStorage := context.WithTimeout(context.Background(), 15*time.Second)
	fileStorage, err := storage.NewS3Storage(storageCtx, cfg.S3, logger)
	cancelStorage()
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Warn("S3 bucket not configured, plan export disabled")
		fileStorage = nil
	case err != nil:
		logger.Fatal("Failed to initialize S3 storage", zap.Error(err))
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	packageRepo := mongo.NewMongoPackageRepository(appDB)
	subscriptionRepo := mongo.NewMongoSubscriptionRepository(appDB)
	assessmentRepo := mongo.NewMongoAssessmentRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	habitRepo := mongo.NewMongoHabitRepository(appDB)

	// --- Initialize Services ---
	services := api.Services{
		Auth:          service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, logger),
		Subscriptions: service.NewSubscriptionService(packageRepo, subscriptionRepo, userRepo, logger),
		SelfTraining: service.NewSelfTrainingService(service.SelfTrainingDeps{
			Subscriptions: subscriptionRepo,
			Assessments:   assessmentRepo,
			Plans:         planRepo,
			Packages:      packageRepo,
			Planner:       plans,
			FileStorage:   fileStorage,
			URLExpiry:     cfg.S3.URLExpiry,
			Logger:        logger,
		}),
		Habits: service.NewHabitService(habitRepo, logger),
	}

	router := api.NewRouter(services, logger, cfg.CORS.AllowedOrigins)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("Server exiting")
}
