package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "uptask/docs"
	"uptask/internal/config"
	"uptask/internal/db"
	"uptask/internal/handlers"
	"uptask/internal/middleware"
	"uptask/internal/pdf"
	"uptask/internal/repositories"
	"uptask/internal/repositories/inmemory"
	"uptask/internal/routes"
	"uptask/internal/services"
)

// Run wires the whole service together and blocks until shutdown.
func Run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Repos ===
	var userRepo repositories.UserRepository
	var taskRepo repositories.TaskRepository

	if conn := connectDB(cfg, logger); conn != nil {
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Warn("failed to close database", zap.Error(err))
			}
		}()
		userRepo = repositories.NewUserRepository(conn)
		taskRepo = repositories.NewTaskRepository(conn)
	} else {
		logger.Warn("database unavailable, falling back to in-memory storage")
		inmem := inmemory.NewStorage()
		userRepo = inmem
		taskRepo = inmem
	}

	// === Services ===
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	userService := services.NewUserService(userRepo, authService, emailService)
	taskService := services.NewTaskService(taskRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	taskHandler := handlers.NewTaskHandler(taskService, userService, pdf.NewReportGenerator())

	// === Reminders ===
	if cfg.Telegram.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			logger.Warn("telegram bot init failed, reminders disabled", zap.Error(err))
		} else {
			reminder := services.NewReminderService(
				taskRepo, userRepo, bot,
				time.Duration(cfg.Telegram.ReminderWindowHours)*time.Hour,
				time.Duration(cfg.Telegram.PollIntervalMinutes)*time.Minute,
			)
			go reminder.Run(ctx)
			logger.Info("due-date reminders enabled", zap.String("bot", bot.Self.UserName))
		}
	}

	// === Gin ===
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.GinZapMiddleware(logger))
	router.Use(middleware.CORSMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, authHandler, taskHandler, authService.Secret())

	// === Run ===
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectDB applies migrations and opens the pool; any failure returns nil so
// the caller can fall back to in-memory storage.
func connectDB(cfg *config.Config, logger *zap.Logger) *sql.DB {
	if cfg.Database.DSN == "" {
		return nil
	}

	if err := db.Migration(cfg.Database.DSN, cfg.Migrations.Path); err != nil {
		logger.Warn("failed to apply migrations", zap.Error(err))
		return nil
	}

	conn, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Warn("failed to open database", zap.Error(err))
		return nil
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		logger.Warn("failed to ping database", zap.Error(err))
		_ = conn.Close()
		return nil
	}
	return conn
}
