package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"account-service/internal/config"
	"account-service/internal/db"
	apihttp "account-service/internal/http"
	"account-service/internal/repository"
	"account-service/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	// Directorio en memoria por defecto; Postgres cuando hay DATABASE_URL.
	var users repository.UserDirectory = repository.NewMemoryUserDirectory()
	if cfg.DatabaseURL != "" {
		if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		users = repository.NewPgUserDirectory(pool)
	}

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLHours)*time.Hour)
	accounts := service.NewAccountService(logger, users, hasher, tokens)

	userHandler := apihttp.NewUserHandler(logger, accounts)
	router := apihttp.NewRouter(logger, userHandler, tokens, accounts)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
