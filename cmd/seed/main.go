package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/servicios-app/backend/internal/adapters/cache"
	"github.com/servicios-app/backend/internal/adapters/database"
	"github.com/servicios-app/backend/internal/adapters/search"
	"github.com/servicios-app/backend/internal/application/services"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/servicios-app/backend/internal/infrastructure/clients/postgres"
	"github.com/servicios-app/backend/internal/infrastructure/clients/redis"
	"github.com/servicios-app/backend/internal/infrastructure/clients/typesense"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
	"github.com/servicios-app/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.App.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	store := database.NewStore(pgClient, nil)
	transactor := database.NewTransactor(pgClient, nil)

	// Seeding goes through the same sync path as the API so caches and the index stay consistent
	var professionalCache services.ProfessionalCache
	if cfg.Redis.Enabled {
		if redisClient, err := redis.NewClient(&cfg.Redis); err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, skipping cache invalidation")
		} else {
			defer redisClient.Close()
			professionalCache = database.NewCachedProfessionalAdapter(store.Professionals(), cache.NewRedisAdapter(redisClient), nil)
		}
	}

	var searchIndex repositories.ProfessionalSearchRepository
	if cfg.Typesense.Enabled {
		if typesenseClient, err := typesense.NewClient(&cfg.Typesense); err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, skipping indexing")
		} else {
			adapter := search.NewTypesenseAdapter(typesenseClient)
			if err := adapter.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
			}
			searchIndex = adapter
		}
	}

	sync := services.NewProfessionalSync(professionalCache, searchIndex)
	seeder := services.NewSeeder(
		services.NewProfessionalService(store, transactor, nil, searchIndex, sync),
		services.NewReviewService(store, transactor, sync),
	)

	seeded, err := seeder.Seed(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed sample data")
	}
	if !seeded {
		log.Info().Msg("Professionals already present, nothing to seed")
		return
	}
	log.Info().Msg("Sample data seeded")
}
