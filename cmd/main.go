package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ielts-genai-prep/internal/auth/config"
	"ielts-genai-prep/internal/di"
	apperrors "ielts-genai-prep/internal/shared/errors"
	"ielts-genai-prep/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application configuration loaded successfully")

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Error("Failed to close container: ", err)
		}
	}()

	// Load auth configuration
	authConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}

	// MongoDB backs accounts for the redis and mongodb stores; pure in-memory
	// mode runs without any external connection.
	var mongoDB *mongo.Database
	if authConfig.AuthStore != config.StoreMemory {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(authConfig.MongoDBURI))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				appLogger.Error("Failed to disconnect MongoDB: ", err)
			}
		}()

		if err := mongoClient.Ping(ctx, nil); err != nil {
			log.Fatalf("Failed to ping MongoDB: %v", err)
		}
		appLogger.Info("MongoDB connection established successfully")

		mongoDB = mongoClient.Database(authConfig.DatabaseName)
	} else {
		appLogger.Info("In-memory store selected; skipping MongoDB connection")
	}

	// Initialize modules through the container
	if err := container.InitializeAuth(mongoDB, authConfig); err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}
	appLogger.Info("Auth module initialized successfully")

	if err := container.InitializeAssessment(); err != nil {
		log.Fatalf("Failed to initialize assessment module: %v", err)
	}
	appLogger.Info("Assessment module initialized successfully")

	// Setup HTTP server (Fiber) with middleware
	app := fiber.New(fiber.Config{
		AppName:      "IELTS GenAI Prep API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				if apperrors.IsInfrastructure(appErr) {
					appLogger.Error("HTTP Error: ", appErr)
				} else {
					appLogger.Warn("HTTP Error: ", appErr)
				}
				return c.Status(appErr.HTTPCode).JSON(fiber.Map{
					"error": appErr.Message,
				})
			}

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(fiber.Map{
					"error": fiberErr.Message,
				})
			}

			appLogger.Error("HTTP Error: ", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	})

	authModule := container.GetAuthModule()
	authMiddleware := authModule.GetMiddleware()

	app.Use(recover.New())
	app.Use(authMiddleware.RequestID())
	app.Use(authMiddleware.RequestScopedContext())
	app.Use(authMiddleware.SecurityHeaders())
	app.Use(authMiddleware.CORS())

	// Health check endpoint with container health status
	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Error("Health check failed: ", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
			"modules": fiber.Map{
				"auth":       "initialized",
				"assessment": "initialized",
			},
		})
	})

	// Register module routes
	authModule.RegisterRoutes(app)
	appLogger.Info("Auth routes registered")

	assessmentModule := container.GetAssessmentModule()
	assessmentModule.RegisterRoutes(app)
	appLogger.Info("Assessment routes registered")

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("All modules initialized. Starting HTTP server on %s", serverAddr)

	// Start server in a goroutine for graceful shutdown
	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error("Server forced to shutdown: ", err)
		}

		appLogger.Info("HTTP server stopped")
	}
}
