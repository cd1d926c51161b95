package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/atlasrent/backend/internal/delivery/http"
	"github.com/atlasrent/backend/internal/infrastructure/assets"
	"github.com/atlasrent/backend/internal/pkg/clock"
	"github.com/atlasrent/backend/internal/pkg/config"
	"github.com/atlasrent/backend/internal/pkg/database"
	"github.com/atlasrent/backend/internal/pkg/jwt"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/pkg/redis"
	"github.com/atlasrent/backend/internal/repository/cached"
	"github.com/atlasrent/backend/internal/repository/postgres"
	"github.com/atlasrent/backend/internal/usecase/auth"
	"github.com/atlasrent/backend/internal/usecase/clients"
	"github.com/atlasrent/backend/internal/usecase/expense"
	"github.com/atlasrent/backend/internal/usecase/fleet"
	"github.com/atlasrent/backend/internal/usecase/report"
	"github.com/atlasrent/backend/internal/usecase/scheduling"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting AtlasRent API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Подключение к Redis
	// =========================================================================

	cache, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() { _ = cache.Close() }()

	log.Info("Connected to Redis", map[string]interface{}{
		"host": cfg.Redis.Host,
		"port": cfg.Redis.Port,
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	rentalRepo := postgres.NewRentalRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)

	// Сводка автопарка читается при каждой загрузке дашборда, кэшируем ее
	carRepo := cached.NewCarRepository(postgres.NewCarRepository(db), cache)

	log.Info("Repositories initialized")

	// =========================================================================
	// Бизнес-часы агентства
	// =========================================================================

	businessClock, err := clock.New(cfg.Business.Timezone)
	if err != nil {
		log.Fatal("Failed to load business timezone", map[string]interface{}{
			"error":    err.Error(),
			"timezone": cfg.Business.Timezone,
		})
	}

	log.Info("Business clock initialized", map[string]interface{}{
		"timezone": cfg.Business.Timezone,
	})

	// =========================================================================
	// Создание клиента хранилища файлов
	// =========================================================================

	var assetsClient assets.Client
	if cfg.Assets.BaseURL != "" {
		assetsClient = assets.NewHTTPClient(cfg.Assets.BaseURL, cfg.Assets.Token, cfg.Assets.Timeout)

		if err := assetsClient.Health(ctx); err != nil {
			log.Warn("Asset storage is not available", map[string]interface{}{
				"error": err.Error(),
				"url":   cfg.Assets.BaseURL,
			})
		}
	} else {
		assetsClient = assets.NewNoopClient()
		log.Info("Asset storage is not configured, document images are kept as external URLs")
	}

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Info("JWT token service initialized")

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(userRepo, refreshTokenRepo, tokenService, log)
	fleetService := fleet.NewService(carRepo, rentalRepo, log)
	clientService := clients.NewService(clientRepo, rentalRepo, assetsClient, log)
	schedulingService := scheduling.NewService(rentalRepo, carRepo, clientRepo, businessClock, log)
	expenseService := expense.NewService(expenseRepo, carRepo, log)
	reportService := report.NewService(carRepo, rentalRepo, expenseRepo, schedulingService, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	carHandler := deliveryHTTP.NewCarHandler(fleetService, schedulingService, log)
	clientHandler := deliveryHTTP.NewClientHandler(clientService, log)
	rentalHandler := deliveryHTTP.NewRentalHandler(schedulingService, log)
	expenseHandler := deliveryHTTP.NewExpenseHandler(expenseService, log)
	dashboardHandler := deliveryHTTP.NewDashboardHandler(reportService, log)

	log.Info("HTTP handlers initialized")

	// =========================================================================
	// Создание и настройка HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		authHandler,
		carHandler,
		clientHandler,
		rentalHandler,
		expenseHandler,
		dashboardHandler,
		tokenService,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		// Даем серверу 30 секунд на graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
			_ = srv.Close()
		}

		log.Info("Server stopped")
	}
}
