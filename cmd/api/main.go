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

	"github.com/discoverly/discoverly/backend/internal/adapters/cache"
	"github.com/discoverly/discoverly/backend/internal/adapters/database"
	"github.com/discoverly/discoverly/backend/internal/adapters/events"
	"github.com/discoverly/discoverly/backend/internal/adapters/search"
	"github.com/discoverly/discoverly/backend/internal/api/handlers"
	"github.com/discoverly/discoverly/backend/internal/api/middleware"
	"github.com/discoverly/discoverly/backend/internal/api/routes"
	"github.com/discoverly/discoverly/backend/internal/application/services"
	"github.com/discoverly/discoverly/backend/internal/domain/providers"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/postgres"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/redis"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/typesense"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/observability"
	"github.com/discoverly/discoverly/backend/pkg/config"
)

func main() {
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
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
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

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		redisClient = nil
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
		typesenseClient = nil
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters

	// Create base business adapter
	baseBusinessAdapter := database.NewBusinessAdapter(pgClient)

	// Wrap with caching if Redis is available
	var businessAdapter repositories.BusinessRepository
	if cacheProvider != nil {
		businessAdapter = database.NewCachedBusinessAdapter(baseBusinessAdapter, cacheProvider)
		log.Println("Business adapter wrapped with caching layer")
	} else {
		businessAdapter = baseBusinessAdapter
		log.Println("Business adapter running without cache (Redis unavailable)")
	}

	userAdapter := database.NewUserAdapter(pgClient)
	favoriteAdapter := database.NewFavoriteAdapter(pgClient)
	viewHistoryAdapter := database.NewViewHistoryAdapter(pgClient)
	taxonomyAdapter := database.NewTaxonomyAdapter(pgClient)
	contentBlockAdapter := database.NewContentBlockAdapter(pgClient)

	var searchRepo repositories.BusinessSearchRepository
	if typesenseClient != nil {
		if err := typesenseClient.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = search.NewTypesenseAdapter(typesenseClient)
	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize services
	preferenceService := services.NewPreferenceService(userAdapter, businessAdapter, favoriteAdapter)
	completenessService := services.NewCompletenessService(contentBlockAdapter)
	openStatusService := services.NewOpenStatusService()
	scoringService := services.NewScoringService()

	discoveryService := services.NewDiscoveryService(
		businessAdapter,
		searchRepo,
		userAdapter,
		viewHistoryAdapter,
		taxonomyAdapter,
		preferenceService,
		completenessService,
		openStatusService,
		scoringService,
		metrics,
	)

	viewHistoryService := services.NewViewHistoryService(viewHistoryAdapter, eventBus)

	// Initialize handlers
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService)
	businessHandler := handlers.NewBusinessHandler(businessAdapter)
	historyHandler := handlers.NewHistoryHandler(viewHistoryService)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyAdapter)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		discoveryHandler,
		businessHandler,
		historyHandler,
		taxonomyHandler,
		cacheMiddleware,
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
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
