package main

import (
	"context"
	"log"
	"net/http"

	_ "biblioteca/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"biblioteca/internal/auth"
	"biblioteca/internal/cache"
	"biblioteca/internal/config"
	"biblioteca/internal/db"
	"biblioteca/internal/handler"
	"biblioteca/internal/hash"
	"biblioteca/internal/logger"
	"biblioteca/internal/mailer"
	"biblioteca/internal/model"
	"biblioteca/internal/repository"
	"biblioteca/internal/router"
	"biblioteca/internal/service"
)

// @title Biblioteca Auth API
// @version 1.0
// @description Authentication service for the library-management application: registration, login, password recovery by email token, and admin user management.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	hasher := hash.NewBcrypt()
	sender := mailer.New(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, cfg.MailFromName, cfg.ResetBaseURL)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	authService := service.NewAuthService(userRepo, hasher, jwtService, tokenStore)
	resetService := service.NewPasswordResetService(userRepo, hasher, sender, service.PasswordResetConfig{
		TokenTTL:           cfg.ResetTokenTTL,
		ClearExpiredTokens: cfg.ClearExpiredResetTokens,
	})
	userService := service.NewUserService(userRepo, hasher, cacheClient)

	// One-time admin bootstrap, gated by a single existence check.
	if err := userService.EnsureAdmin(context.Background(), cfg.BootstrapAdminPassword); err != nil {
		logger.Fatal("admin bootstrap failed", zap.Error(err))
	}

	authHandler := handler.NewAuthHandler(authService)
	passwordHandler := handler.NewPasswordHandler(resetService)
	userHandler := handler.NewUserHandler(userService)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, authHandler, passwordHandler, userHandler)

	addr := ":" + cfg.ServerPort
	logger.Info("server starting", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
