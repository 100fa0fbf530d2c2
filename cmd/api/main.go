package main

import (
	"go.uber.org/zap"

	"uptask/internal/app"
	"uptask/internal/config"
)

// @title           Uptask API
// @version         1.0
// @description     Personal task tracking service.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg, err := config.LoadConfig("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	if err := app.Run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
