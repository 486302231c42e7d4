package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/servicios-app/backend/internal/adapters/cache"
	"github.com/servicios-app/backend/internal/adapters/database"
	"github.com/servicios-app/backend/internal/adapters/search"
	"github.com/servicios-app/backend/internal/api/handlers"
	"github.com/servicios-app/backend/internal/api/middleware"
	"github.com/servicios-app/backend/internal/api/routes"
	"github.com/servicios-app/backend/internal/application/services"
	"github.com/servicios-app/backend/internal/domain/providers"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/servicios-app/backend/internal/infrastructure/clients/postgres"
	"github.com/servicios-app/backend/internal/infrastructure/clients/redis"
	"github.com/servicios-app/backend/internal/infrastructure/clients/typesense"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
	"github.com/servicios-app/backend/pkg/config"
)

const (
	sessionPurgeInterval = time.Hour
	cacheWarmInterval    = 150 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			log.Info().Msg("Redis client initialized successfully")
		}
	}

	var searchIndex repositories.ProfessionalSearchRepository
	if cfg.Typesense.Enabled {
		typesenseClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense client, search falls back to PostgreSQL")
		} else {
			adapter := search.NewTypesenseAdapter(typesenseClient)
			if err := adapter.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
			}
			searchIndex = adapter
		}
	}

	store := database.NewStore(pgClient, metrics)
	transactor := database.NewTransactor(pgClient, metrics)

	// Wrap professional reads with caching if Redis is available
	var professionalReads repositories.ProfessionalRepository
	var professionalCache services.ProfessionalCache
	if cacheProvider != nil {
		cached := database.NewCachedProfessionalAdapter(store.Professionals(), cacheProvider, metrics)
		professionalReads = cached
		professionalCache = cached
	}
	sync := services.NewProfessionalSync(professionalCache, searchIndex)

	professionalService := services.NewProfessionalService(store, transactor, professionalReads, searchIndex, sync)
	reviewService := services.NewReviewService(store, transactor, sync)
	serviceRequestService := services.NewServiceRequestService(store, transactor)
	authService := services.NewAuthService(store, transactor, services.AuthOptions{TokenTTL: cfg.Auth.TokenTTL})

	if cfg.App.SeedSampleData {
		seeded, err := services.NewSeeder(professionalService, reviewService).Seed(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to seed sample data")
		} else if seeded {
			log.Info().Msg("Sample data seeded")
		}
	}

	if professionalReads != nil {
		services.NewCacheWarmingService(professionalReads).StartPeriodicWarming(ctx, cacheWarmInterval)
	}

	if searchIndex != nil {
		go func() {
			indexed, err := professionalService.Reindex(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to reindex professionals")
				return
			}
			log.Info().Int("indexed", indexed).Msg("Professionals indexed in Typesense")
		}()
	}

	go purgeExpiredSessions(ctx, authService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	loginLimiter := handlers.NewLoginLimiter(cacheProvider, cfg.Auth.LoginRateLimit, cfg.Auth.LoginWindow)
	if err := loginLimiter.TrustProxies(cfg.Server.TrustedProxies); err != nil {
		log.Fatal().Err(err).Msg("Invalid TRUSTED_PROXIES")
	}

	router := routes.NewRouter(
		handlers.NewProfessionalHandler(professionalService),
		handlers.NewReviewHandler(reviewService),
		handlers.NewServiceRequestHandler(serviceRequestService),
		handlers.NewAuthHandler(authService, loginLimiter, metrics),
		handlers.NewHealthHandler(pgClient),
		authService,
		routes.Options{
			CacheMiddleware: cacheMiddleware,
			AllowedOrigins:  cfg.App.AllowedOrigins,
			Metrics:         metrics,
		},
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}

func purgeExpiredSessions(ctx context.Context, auth *services.AuthService) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := auth.PurgeExpiredSessions(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to purge expired sessions")
				continue
			}
			if removed > 0 {
				log.Info().Int64("removed", removed).Msg("Purged expired sessions")
			}
		}
	}
}
