package main

// @title Places Microservice API
// @version 1.0.0
// @description Микросервис резолва геоточек в закешированные локации с объектами OpenStreetMap.
// @description
// @description Основные возможности:
// @description - Резолв точки с радиусом в локацию (кеш-хит по полному вхождению bbox)
// @description - Ленивое наполнение локации объектами из Overpass API
// @description - Дедупликация объектов по (osm_id, osm_type), геометрия в WKT
// @description - Постраничное чтение объектов локации
// @description - Переименование и деактивация локаций

// @contact.name API Support
// @contact.email support@places-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/places-microservice/docs/swagger"
	"github.com/places-microservice/internal/config"
	httpDelivery "github.com/places-microservice/internal/delivery/http"
	"github.com/places-microservice/internal/delivery/http/handler"
	"github.com/places-microservice/internal/infrastructure/overpass"
	"github.com/places-microservice/internal/pkg/geoindex"
	"github.com/places-microservice/internal/pkg/logger"
	"github.com/places-microservice/internal/repository/cache"
	"github.com/places-microservice/internal/repository/postgres"
	"github.com/places-microservice/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Places Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	locationRepo := postgres.NewLocationRepository(db)
	featureRepo := postgres.NewFeatureRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	catalog, err := overpass.NewQueryCatalog(cfg.Overpass.QueriesPath)
	if err != nil {
		log.Fatal("Failed to load Overpass query catalog", zap.Error(err))
	}
	overpassRepo := overpass.NewOverpassClient(&cfg.Overpass, catalog, log)

	log.Info("Repositories initialized",
		zap.Strings("query_types", overpassRepo.QueryTypes()))

	// 7. Initialize Use Cases
	index := geoindex.New()

	populateUC := usecase.NewPopulateUseCase(
		overpassRepo,
		featureRepo,
		cacheRepo,
		log,
	)

	locationUC := usecase.NewLocationUseCase(
		locationRepo,
		populateUC,
		index,
		log,
		cfg.Places.MaxLocationsPerAccount,
		cfg.Places.DefaultRadiusKm,
	)

	featureUC := usecase.NewFeatureUseCase(
		locationRepo,
		featureRepo,
		cacheRepo,
		log,
		cfg.Cache.FeaturesCacheTTL,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	locationHandler := handler.NewLocationHandler(locationUC, log)
	featureHandler := handler.NewFeatureHandler(featureUC, log)

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		locationHandler,
		featureHandler,
		overpassRepo.QueryTypes(),
	)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
