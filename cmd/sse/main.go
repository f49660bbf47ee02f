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

	observability.InitLogger(cfg.OTEL.ServiceName+"-sse", cfg.Server.Env)

	log.Println("Starting SSE Server...")

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client (snapshots are read straight from the store)
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client (sessions and the event bus)
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis client initialized successfully")

	// Initialize event bus for real-time updates
	eventBus := events.NewRedisEventBus(redisClient)
	log.Println("Event bus initialized successfully")

	// Initialize adapters and services backing the snapshots
	userAdapter := database.NewUserAdapter(pgClient)
	menuAdapter := database.NewMenuAdapter(pgClient)
	feedbackAdapter := database.NewFeedbackAdapter(pgClient)
	leaveAdapter := database.NewLeaveAdapter(pgClient)
	orderAdapter := database.NewOrderAdapter(pgClient)
	announcementAdapter := database.NewAnnouncementAdapter(pgClient)

	cacheProvider := cache.NewRedisAdapter(redisClient)

	authService := services.NewAuthService(userAdapter, cacheProvider, eventBus, cfg.Auth.SessionTTL, cfg.Auth.BcryptCost)
	userService := services.NewUserService(userAdapter, eventBus)
	menuService := services.NewMenuService(menuAdapter, cacheProvider, eventBus)
	feedbackService := services.NewFeedbackService(feedbackAdapter, eventBus)
	leaveService := services.NewLeaveService(leaveAdapter, eventBus)
	orderService := services.NewOrderService(orderAdapter, eventBus)
	announcementService := services.NewAnnouncementService(announcementAdapter, eventBus)

	// Initialize stream handler
	streamHandler := handlers.NewStreamHandler(
		eventBus,
		userService,
		menuService,
		feedbackService,
		leaveService,
		orderService,
		announcementService,
		metrics,
	)
	log.Println("Stream handler initialized successfully")

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Set up router
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// SSE streaming endpoint, one subscription per collection
	mux.Handle("GET /api/stream/{collection}", authMiddleware.RequireSession(http.HandlerFunc(streamHandler.Stream)))

	// Apply middleware
	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,  // Longer timeout for SSE
		WriteTimeout: 0,                 // No timeout for SSE streaming
		IdleTimeout:  120 * time.Second, // Allow long-lived connections
	}

	// Start server in a goroutine
	go func() {
		log.Printf("SSE Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("SSE Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("SSE Server shutting down...")

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

	log.Println("SSE Server stopped")
}
