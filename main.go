package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/diet-tracker/internal/api"
	"github.com/vladimiradmaev/diet-tracker/internal/api/handlers"
	"github.com/vladimiradmaev/diet-tracker/internal/auth"
	"github.com/vladimiradmaev/diet-tracker/internal/config"
	"github.com/vladimiradmaev/diet-tracker/internal/database"
	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	"github.com/vladimiradmaev/diet-tracker/internal/logger"
	"github.com/vladimiradmaev/diet-tracker/internal/repository"
	"github.com/vladimiradmaev/diet-tracker/internal/services"
	"github.com/vladimiradmaev/diet-tracker/internal/state"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	logger.Info("Starting diet tracker", "storage", cfg.Storage)

	store, closeStore := openStore(cfg)
	defer closeStore()

	tracker, closeTracker := openTracker(cfg)
	defer closeTracker()

	codec, err := auth.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.Algorithm)
	if err != nil {
		logger.Fatal("Failed to create token codec", "error", err)
	}
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	deps := handlers.Dependencies{
		AuthService:        services.NewAuthService(store, codec, hasher, tracker, cfg.Auth),
		MeasurementService: services.NewMeasurementService(store, cfg.Ledger.MinInterval),
		GoalService:        services.NewGoalService(store),
		MenuService:        services.NewMenuService(store),
		CatalogService:     services.NewCatalogService(store),
		TrainingService:    services.NewTrainingService(store),
	}
	logger.Info("Services initialized")

	server := api.NewServer(cfg.Server, api.NewRouter(cfg.Server, deps, logger.GetLogger()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutting down server", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped with error", "error", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		return
	}
	logger.Info("Server stopped gracefully")
}

func openStore(cfg *config.Config) (domain.Store, func()) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on exit")
		return repository.NewMemoryStore(), func() {}
	}

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	return repository.NewPostgresStore(db), func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}
}

func openTracker(cfg *config.Config) (state.AttemptTracker, func()) {
	if cfg.Auth.MaxLoginAttempts == 0 {
		return nil, func() {}
	}
	if !cfg.Redis.Enabled() {
		logger.Info("Login attempts tracked in memory")
		return state.NewManager(), func() {}
	}

	redisManager, err := state.NewRedisManager(cfg.Redis.Addr(), cfg.Redis.Password)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err, "addr", cfg.Redis.Addr())
	}
	logger.Info("Login attempts tracked in Redis", "addr", cfg.Redis.Addr())
	return redisManager, func() {
		if err := redisManager.Close(); err != nil {
			logger.Error("Failed to close Redis", "error", err)
		}
	}
}
