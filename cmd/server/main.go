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

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-api/internal/auth"
	"github.com/yukikurage/task-api/internal/config"
	"github.com/yukikurage/task-api/internal/database"
	"github.com/yukikurage/task-api/internal/handlers"
	"github.com/yukikurage/task-api/internal/logger"
	"github.com/yukikurage/task-api/internal/repository"
	"github.com/yukikurage/task-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	system := zlog.Named(logger.NameSystem)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, system)
	if err != nil {
		system.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	// Run migrations
	if err := database.Migrate(db, system); err != nil {
		system.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Wire repositories and services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiresIn)
	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		auth.NewBcryptHasher(),
		tokens,
		zlog,
	)
	taskService := services.NewTaskService(repository.NewTaskRepository(db), zlog)

	if cfg.HasAdminBootstrap() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		user, created, err := authService.EnsureSuperUser(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		cancel()
		if err != nil {
			system.Fatal("Failed to provision super user", zap.Error(err))
		}
		system.Info("Super user ready", zap.Uint64("user_id", user.ID), zap.Bool("created", created))
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		APIPrefix:    cfg.APIPrefix,
		AllowOrigins: cfg.CORSAllowOrigins,
		DB:           db,
		Tokens:       tokens,
		AuthService:  authService,
		TaskService:  taskService,
		Logger:       zlog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		system.Info("Server starting", zap.String("addr", srv.Addr), zap.String("prefix", cfg.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			system.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	system.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		system.Error("Server forced to shutdown", zap.Error(err))
	}
}
