package services

import (
	"context"
	"time"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
)

// CacheWarmingService keeps the professional listings hot in the read cache
type CacheWarmingService struct {
	reads repositories.ProfessionalRepository
}

// NewCacheWarmingService creates a new cache warming service. reads must be the
// caching repository so that each listing it loads is written back to the cache.
func NewCacheWarmingService(reads repositories.ProfessionalRepository) *CacheWarmingService {
	return &CacheWarmingService{reads: reads}
}

// WarmCache loads the unfiltered listing and every category listing, returning how many
// professionals were loaded in total
func (s *CacheWarmingService) WarmCache(ctx context.Context) int {
	logger := observability.LoggerFromContext(ctx)

	filters := []repositories.ProfessionalFilter{{}}
	for _, c := range entities.Categories() {
		filters = append(filters, repositories.ProfessionalFilter{Category: c.ID})
	}

	warmed := 0
	for _, filter := range filters {
		professionals, err := s.reads.List(ctx, filter)
		if err != nil {
			logger.Warn().Err(err).Str("category", filter.Category).Msg("failed to warm professionals list")
			continue
		}
		warmed += len(professionals)
	}

	logger.Debug().Int("professionals", warmed).Msg("professional listings warmed")
	return warmed
}

// StartPeriodicWarming warms the cache immediately and then on every interval until ctx ends
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	s.WarmCache(ctx)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.WarmCache(ctx)
			}
		}
	}()
}
