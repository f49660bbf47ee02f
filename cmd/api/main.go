package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/messup/backend/internal/adapters/cache"
	"github.com/messup/backend/internal/adapters/database"
	"github.com/messup/backend/internal/adapters/events"
	"github.com/messup/backend/internal/api/handlers"
	"github.com/messup/backend/internal/api/middleware"
	"github.com/messup/backend/internal/api/routes"
	"github.com/messup/backend/internal/application/services"
	"github.com/messup/backend/internal/infrastructure/clients/postgres"
	"github.com/messup/backend/internal/infrastructure/clients/redis"
	"github.com/messup/backend/internal/infrastructure/observability"
	"github.com/messup/backend/pkg/config"
	"github.com/messup/backend/pkg/secrets"
)

func main() {
	// Pull secrets into the environment before configuration is read
	vaultCtx, vaultCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if result, err := secrets.ApplyVaultSecrets(vaultCtx, secrets.LoadVaultConfigFromEnv()); err != nil {
		log.Printf("Warning: Failed to apply Vault secrets: %v", err)
	} else if result.Enabled {
		log.Printf("Vault secrets applied from %s (%d loaded, %d skipped)", result.Path, result.Loaded, result.Skipped)
	}
	vaultCancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client (required: sessions live there)
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis client initialized successfully")

	// Initialize adapters
	userAdapter := database.NewUserAdapter(pgClient)
	menuAdapter := database.NewMenuAdapter(pgClient)
	feedbackAdapter := database.NewFeedbackAdapter(pgClient)
	leaveAdapter := database.NewLeaveAdapter(pgClient)
	orderAdapter := database.NewOrderAdapter(pgClient)
	announcementAdapter := database.NewAnnouncementAdapter(pgClient)

	cacheProvider := cache.NewRedisAdapter(redisClient)

	// Initialize event bus for live subscriptions
	eventBus := events.NewRedisEventBus(redisClient)
	log.Println("Event bus initialized successfully")

	// Initialize services
	authService := services.NewAuthService(userAdapter, cacheProvider, eventBus, cfg.Auth.SessionTTL, cfg.Auth.BcryptCost)
	userService := services.NewUserService(userAdapter, eventBus)
	menuService := services.NewMenuService(menuAdapter, cacheProvider, eventBus)
	feedbackService := services.NewFeedbackService(feedbackAdapter, eventBus)
	leaveService := services.NewLeaveService(leaveAdapter, eventBus)
	orderService := services.NewOrderService(orderAdapter, eventBus)
	announcementService := services.NewAnnouncementService(announcementAdapter, eventBus)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	menuHandler := handlers.NewMenuHandler(menuService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	leaveHandler := handlers.NewLeaveHandler(leaveService)
	orderHandler := handlers.NewOrderHandler(orderService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Set up router
	router := routes.NewRouter(
		authHandler,
		userHandler,
		menuHandler,
		feedbackHandler,
		leaveHandler,
		orderHandler,
		announcementHandler,
		authMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if err := eventBus.Close(); err != nil {
		log.Printf("Error closing event bus: %v", err)
	}

	log.Println("Server stopped")
}
