package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esticore/auth-api/internal/config"
	"github.com/esticore/auth-api/internal/db"
	"github.com/esticore/auth-api/internal/handlers"
	"github.com/esticore/auth-api/internal/middleware"
	"github.com/esticore/auth-api/internal/repository"
	"github.com/esticore/auth-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded")

	// 2. Initialize database connection
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3. Initialize layers
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)

	emailService := service.NewEmailService(cfg, logger)
	issuer := service.NewIssuer(tokenRepo, cfg.OTPLength, cfg.OTPExpiry(), cfg.LegacyLinkExpiry())
	verifier := service.NewVerifier(tokenRepo, userRepo)
	authService := service.NewAuthService(userRepo, issuer, verifier, emailService, cfg.JWTSecret, logger)
	authHandler := handlers.NewAuthHandler(authService)

	// 4. Setup Gin router
	router := gin.Default()
	router.Use(middleware.RequestID())

	router.GET("/health", handlers.HealthCheck)
	authHandler.RegisterRoutes(router, middleware.RequireAuth(cfg.JWTSecret))

	// 5. Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
