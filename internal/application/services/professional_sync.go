package services

import (
	"context"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
)

// ProfessionalCache drops cached reads of a professional
type ProfessionalCache interface {
	Invalidate(ctx context.Context, id int64) error
}

// ProfessionalSync propagates committed professional changes to the read cache and the
// search index. Both are optional; failures are logged and never fail the request.
type ProfessionalSync struct {
	cache ProfessionalCache
	index repositories.ProfessionalSearchRepository
}

// NewProfessionalSync creates a new sync helper. Either dependency may be nil.
func NewProfessionalSync(cache ProfessionalCache, index repositories.ProfessionalSearchRepository) *ProfessionalSync {
	return &ProfessionalSync{cache: cache, index: index}
}

// Changed is called after a professional row, or its rating, was committed
func (s *ProfessionalSync) Changed(ctx context.Context, professional *entities.Professional) {
	if s == nil || professional == nil {
		return
	}
	s.invalidate(ctx, professional.ID)

	if s.index != nil {
		if err := s.index.Index(ctx, professional); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Int64("professional_id", professional.ID).Msg("failed to index professional")
		}
	}
}

// Removed is called after a professional was deleted
func (s *ProfessionalSync) Removed(ctx context.Context, id int64) {
	if s == nil {
		return
	}
	s.invalidate(ctx, id)

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Int64("professional_id", id).Msg("failed to remove professional from index")
		}
	}
}

// Reindex upserts every given professional and returns how many were indexed
func (s *ProfessionalSync) Reindex(ctx context.Context, professionals []*entities.Professional) int {
	if s == nil || s.index == nil {
		return 0
	}
	indexed := 0
	for _, p := range professionals {
		if err := s.index.Index(ctx, p); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Int64("professional_id", p.ID).Msg("failed to index professional")
			continue
		}
		indexed++
	}
	return indexed
}

func (s *ProfessionalSync) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Int64("professional_id", id).Msg("failed to invalidate professional cache")
	}
}
