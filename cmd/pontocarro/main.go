package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/william-rossi/pontocarro-api/internal/config"
	"github.com/william-rossi/pontocarro-api/internal/domain"
	"github.com/william-rossi/pontocarro-api/internal/handler"
	"github.com/william-rossi/pontocarro-api/internal/mail"
	"github.com/william-rossi/pontocarro-api/internal/repository"
	"github.com/william-rossi/pontocarro-api/internal/service"
	"github.com/william-rossi/pontocarro-api/internal/storage"
	"github.com/william-rossi/pontocarro-api/internal/validation"
	"github.com/william-rossi/pontocarro-api/pkg/jwt"
	"github.com/william-rossi/pontocarro-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("info")

	if err := validation.RegisterCustomValidators(); err != nil {
		log.Fatal("failed to register validators: " + err.Error())
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	// unaccent backs the accent-insensitive search predicates.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS unaccent").Error; err != nil {
		log.Fatal("failed to enable unaccent extension: " + err.Error())
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Vehicle{}, &domain.Image{}); err != nil {
		log.Fatal("failed to migrate database: " + err.Error())
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	blobClient, err := azblob.NewClientFromConnectionString(cfg.AzureStorageConnectionString, nil)
	if err != nil {
		log.Fatal("failed to create blob client: " + err.Error())
	}
	store := storage.NewBlobStore(blobClient, cfg.BlobContainerName, cfg.BlobPublicBaseURL)
	if err := store.EnsureContainer(context.Background()); err != nil {
		log.Fatal("failed to ensure blob container: " + err.Error())
	}

	tokenManager := jwt.NewTokenManager(cfg.JWTSecretKey, redisClient)
	mailer := mail.NewSMTPMailer(cfg, log)

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	imageRepo := repository.NewImageRepository(db)

	authService := service.NewAuthService(userRepo, tokenManager, mailer, cfg, log)
	userService := service.NewUserService(userRepo, vehicleRepo, imageRepo, store, log)
	vehicleService := service.NewVehicleService(vehicleRepo, imageRepo, store, log)
	imageService := service.NewImageService(imageRepo, vehicleRepo, store, log)

	router := handler.NewRouter(
		tokenManager,
		userService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewVehicleHandler(vehicleService),
		handler.NewImageHandler(imageService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error: " + err.Error())
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Errorf("redis close: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Errorf("database close: %v", err)
		}
	}
}
