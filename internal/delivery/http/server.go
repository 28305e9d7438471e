package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/places-microservice/internal/config"
	"github.com/places-microservice/internal/delivery/http/handler"
	"github.com/places-microservice/internal/delivery/http/middleware"
	apperrors "github.com/places-microservice/internal/pkg/errors"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	locationHandler *handler.LocationHandler
	featureHandler  *handler.FeatureHandler

	queryTypes []string
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	locationHandler *handler.LocationHandler,
	featureHandler *handler.FeatureHandler,
	queryTypes []string,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Places Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		locationHandler: locationHandler,
		featureHandler:  featureHandler,
		queryTypes:      queryTypes,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	places := api.Group("/places")

	// Резолв точки: кеш-хит или создание и наполнение локации
	places.Post("/resolve", s.locationHandler.Resolve)

	// Локации аккаунта
	places.Get("/locations", s.locationHandler.ListLocations)
	places.Get("/locations/:id", s.locationHandler.GetLocation)
	places.Patch("/locations/:id", s.locationHandler.UpdateLocation)
	places.Delete("/locations/:id", s.locationHandler.DeactivateLocation)

	// Объекты локации
	places.Get("/locations/:id/features", s.featureHandler.ListFeatures)

	// Известные типы Overpass запросов
	places.Get("/query-types", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"query_types": s.queryTypes})
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return c.Status(appErr.StatusCode).JSON(fiber.Map{"error": appErr})
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
