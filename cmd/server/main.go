package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/task-tracker-api/internal/auth"
	"github.com/tasktracker/task-tracker-api/internal/config"
	"github.com/tasktracker/task-tracker-api/internal/database"
	"github.com/tasktracker/task-tracker-api/internal/handlers"
	"github.com/tasktracker/task-tracker-api/internal/logging"
	"github.com/tasktracker/task-tracker-api/internal/middleware"
	"github.com/tasktracker/task-tracker-api/internal/repository"
	"github.com/tasktracker/task-tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.SlogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, logger.Slog())
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return err
	}

	authService, err := services.NewAuthService(
		repository.NewUserRepository(db),
		tokens,
		services.WithBcryptCost(cfg.BcryptCost),
		services.WithAuthLogger(logger),
	)
	if err != nil {
		return err
	}
	taskService := services.NewTaskService(repository.NewTaskRepository(db), logger)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	handlers.RegisterRoutes(r, handlers.Dependencies{
		AuthService: authService,
		TaskService: taskService,
		Tokens:      tokens,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", "addr", srv.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
