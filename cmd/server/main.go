package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitpro/manager/internal/api"
	"fitpro/manager/internal/config"
	"fitpro/manager/internal/logger"
	"fitpro/manager/internal/repository"
	"fitpro/manager/internal/repository/memory"
	"fitpro/manager/internal/repository/mongo"
	"fitpro/manager/internal/service"
	"fitpro/manager/internal/session"
	"fitpro/manager/internal/storage"

	"github.com/gin-gonic/gin"
)

// fallbackMongoURI is used when database.uri is unset. Calls fail once the
// driver gives up on server selection.
const fallbackMongoURI = "mongodb://localhost:27017"

// @title FitPro Manager API
// @version 1.0
// @description Personal-trainer back office: clients, workouts, payments and plans.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Dev:       cfg.Server.IsDev(),
		Level:     cfg.Log.Level,
		SentryDSN: cfg.Log.SentryDSN,
	})
	defer logger.Flush()
	slog.Info("Starting FitPro Manager", "env", cfg.Server.Env, "driver", cfg.Database.Driver)

	for _, key := range cfg.Missing() {
		slog.Error("Required configuration is missing, dependent calls will fail", "key", key)
	}

	// --- Repositories ---
	store, closeStore := openStore(cfg.Database)
	defer closeStore()

	// --- Storage ---
	fileStorage := openStorage(cfg.S3)

	// --- Services ---
	bus := session.NewBus()
	registry := session.NewRegistry(bus)

	planService := service.NewPlanService(store.Plans, store.Users, store.Clients, bus)
	exerciseService := service.NewExerciseService(store.Exercises, store.Uploads, fileStorage)
	workoutService := service.NewWorkoutService(store.Workouts, store.Exercises, store.Clients)
	draftService := service.NewDraftService(workoutService, store.Exercises, cfg.Builder.DraftTTL)
	services := api.Services{
		Auth:      service.NewAuthService(store.Users, bus, registry, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Auth.AdminEmails),
		Profiles:  service.NewProfileService(store.Users, store.Uploads, fileStorage, bus),
		Plans:     planService,
		Clients:   service.NewClientService(store.Clients, store.Workouts, store.Users, planService),
		Exercises: exerciseService,
		Workouts:  workoutService,
		Drafts:    draftService,
		Payments:  service.NewPaymentService(store.Payments, store.Clients),
		Stats:     service.NewStatsService(store.Clients, store.Workouts, store.Payments),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go seed(ctx, planService, exerciseService)
	go draftService.Run(ctx)

	// --- Gin Engine ---
	if !cfg.Server.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, services, api.NewMetrics())

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ListenAndServe failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server exiting.")
}

// openStore builds the repositories for the configured driver and returns a
// cleanup func.
func openStore(cfg config.DatabaseConfig) (*repository.Store, func()) {
	if cfg.Driver == "memory" {
		slog.Warn("Using in-memory repositories, nothing will be persisted")
		return memory.NewStore(), func() {}
	}

	uri := cfg.URI
	if uri == "" {
		uri = fallbackMongoURI
	}
	dbClient, err := mongo.ConnectDB(uri)
	if err != nil {
		slog.Error("Could not create MongoDB client", "error", err)
		os.Exit(1)
	}
	if err := mongo.Ping(dbClient); err != nil {
		slog.Error("MongoDB is not reachable yet", "error", err)
	}
	appDB := dbClient.Database(cfg.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			slog.Error("Index creation failed", "error", err)
			return
		}
		slog.Info("Database indexes ensured")
	}()

	return mongo.NewStore(appDB), func() {
		slog.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			slog.Error("Failed to disconnect MongoDB", "error", err)
		}
	}
}

// openStorage returns S3 storage, or process memory when no bucket is configured.
func openStorage(cfg config.S3Config) storage.FileStorage {
	if cfg.BucketName == "" {
		slog.Warn("No S3 bucket configured, uploads are kept in memory")
		return storage.NewMemoryStorage(cfg.PublicBaseURL)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	fileStorage, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	return fileStorage
}

func seed(ctx context.Context, plans service.PlanService, exercises service.ExerciseService) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := plans.Seed(ctx); err != nil {
		slog.Error("Seeding plans failed", "error", err)
	}
	if err := exercises.Seed(ctx); err != nil {
		slog.Error("Seeding exercises failed", "error", err)
	}
}
