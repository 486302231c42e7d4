package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/providers"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
)

// CachedProfessionalAdapter wraps a ProfessionalRepository with a read-through cache.
// Writes pass straight through; callers invalidate after their transaction commits.
//
// Every cache key embeds the current generation read before the database load.
// Invalidate bumps the generation, so a reader that loaded a pre-commit row can only
// write it under a generation nobody reads any more.
type CachedProfessionalAdapter struct {
	repositories.ProfessionalRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedProfessionalAdapter creates a new cached professional adapter
func NewCachedProfessionalAdapter(adapter repositories.ProfessionalRepository, cache providers.CacheProvider, metrics *observability.Metrics) *CachedProfessionalAdapter {
	return &CachedProfessionalAdapter{
		ProfessionalRepository: adapter,
		cache:                  cache,
		metrics:                metrics,
	}
}

// Cache TTLs (in seconds)
const (
	professionalByIDTTL   = 300 // 5 minutes for single professional
	professionalsListTTL  = 180 // 3 minutes for lists
	professionalKeyPrefix = "professional"
	professionalsListKey  = "professionals:list"
	generationKey         = "professionals:generation"
)

// Cache key generators
func professionalCacheKey(generation string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", professionalKeyPrefix, generation, id)
}

func professionalsListCacheKey(generation, category string) string {
	return fmt.Sprintf("%s:%s:%s", professionalsListKey, generation, category)
}

// generation returns the current cache generation. ok is false when the cache cannot
// be consulted, in which case reads go to the database and nothing is cached.
func (a *CachedProfessionalAdapter) generation(ctx context.Context) (string, bool) {
	raw, err := a.cache.Get(ctx, generationKey)
	if errors.Is(err, providers.ErrCacheMiss) {
		return "0", true
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("cache generation read failed")
		observability.RecordCacheMiss(ctx, a.metrics, professionalKeyPrefix)
		return "", false
	}
	return string(raw), true
}

// GetByID retrieves a professional by ID with caching
func (a *CachedProfessionalAdapter) GetByID(ctx context.Context, id int64) (*entities.Professional, error) {
	generation, ok := a.generation(ctx)
	if !ok {
		return a.ProfessionalRepository.GetByID(ctx, id)
	}
	cacheKey := professionalCacheKey(generation, id)

	var professional entities.Professional
	if a.readCache(ctx, cacheKey, &professional) {
		return &professional, nil
	}

	fetched, err := a.ProfessionalRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.writeCache(ctx, cacheKey, fetched, professionalByIDTTL)
	return fetched, nil
}

// List retrieves professionals with caching per category filter
func (a *CachedProfessionalAdapter) List(ctx context.Context, filter repositories.ProfessionalFilter) ([]*entities.Professional, error) {
	generation, ok := a.generation(ctx)
	if !ok {
		return a.ProfessionalRepository.List(ctx, filter)
	}
	cacheKey := professionalsListCacheKey(generation, filter.Category)

	var professionals []*entities.Professional
	if a.readCache(ctx, cacheKey, &professionals) {
		return professionals, nil
	}

	fetched, err := a.ProfessionalRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.writeCache(ctx, cacheKey, fetched, professionalsListTTL)
	return fetched, nil
}

// Invalidate retires every cached professional and list by moving to a new generation.
// Entries of older generations are never read again and expire on their TTL.
func (a *CachedProfessionalAdapter) Invalidate(ctx context.Context, id int64) error {
	if _, err := a.cache.Increment(ctx, generationKey, 0); err != nil {
		return fmt.Errorf("failed to invalidate professional %d: %w", id, err)
	}
	return nil
}

func (a *CachedProfessionalAdapter) readCache(ctx context.Context, key string, dest interface{}) bool {
	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		observability.RecordCacheMiss(ctx, a.metrics, professionalKeyPrefix)
		return false
	}

	if err := json.Unmarshal(cached, dest); err != nil {
		// If unmarshal fails, continue to fetch from DB
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
		observability.RecordCacheMiss(ctx, a.metrics, professionalKeyPrefix)
		return false
	}

	observability.RecordCacheHit(ctx, a.metrics, professionalKeyPrefix)
	return true
}

func (a *CachedProfessionalAdapter) writeCache(ctx context.Context, key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache value")
	}
}
