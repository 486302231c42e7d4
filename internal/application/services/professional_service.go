package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
	apperrors "github.com/servicios-app/backend/pkg/errors"
)

// ProfessionalInput carries client-supplied professional fields. Nil fields are absent;
// rating and reviews_count are deliberately not part of it.
type ProfessionalInput struct {
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Distance    *string   `json:"distance"`
	Available   *bool     `json:"available"`
	Specialties *[]string `json:"specialties"`
	Price       *string   `json:"price"`
	Avatar      *string   `json:"avatar"`
	Phone       *string   `json:"phone"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
}

// ProfessionalService handles business logic for professionals
type ProfessionalService struct {
	store  repositories.Store
	tx     repositories.TxRunner
	reads  repositories.ProfessionalRepository
	search repositories.ProfessionalSearchRepository
	sync   *ProfessionalSync
}

// NewProfessionalService creates a new professional service. reads may be a cached view
// of store.Professionals(); search and sync may be nil.
func NewProfessionalService(
	store repositories.Store,
	tx repositories.TxRunner,
	reads repositories.ProfessionalRepository,
	search repositories.ProfessionalSearchRepository,
	sync *ProfessionalSync,
) *ProfessionalService {
	if reads == nil {
		reads = store.Professionals()
	}
	return &ProfessionalService{
		store:  store,
		tx:     tx,
		reads:  reads,
		search: search,
		sync:   sync,
	}
}

// Categories returns the fixed category list
func (s *ProfessionalService) Categories() []entities.Category {
	return entities.Categories()
}

// List returns professionals ordered by ID. An unknown category matches nothing.
func (s *ProfessionalService) List(ctx context.Context, category string) ([]*entities.Professional, error) {
	if category != "" && !entities.IsValidCategory(category) {
		return []*entities.Professional{}, nil
	}
	return s.reads.List(ctx, repositories.ProfessionalFilter{Category: category})
}

// Get retrieves a professional by ID
func (s *ProfessionalService) Get(ctx context.Context, id int64) (*entities.Professional, error) {
	return s.reads.GetByID(ctx, id)
}

// Create validates and stores a new professional
func (s *ProfessionalService) Create(ctx context.Context, in ProfessionalInput) (*entities.Professional, error) {
	if err := checkRequired(
		stringField("name", in.Name),
		stringField("category", in.Category),
		stringField("distance", in.Distance),
		stringField("price", in.Price),
		stringField("avatar", in.Avatar),
	); err != nil {
		return nil, err
	}
	if err := validateCategory(*in.Category); err != nil {
		return nil, err
	}

	professional := &entities.Professional{
		Available:   true,
		Specialties: []string{},
		Location:    entities.DefaultLocation,
	}
	applyProfessionalInput(professional, in)

	if err := s.store.Professionals().Create(ctx, professional); err != nil {
		return nil, err
	}

	s.sync.Changed(ctx, professional)
	return professional, nil
}

// Update applies the present fields of in to an existing professional
func (s *ProfessionalService) Update(ctx context.Context, id int64, in ProfessionalInput) (*entities.Professional, error) {
	if in.Category != nil {
		if err := validateCategory(*in.Category); err != nil {
			return nil, err
		}
	}

	var updated *entities.Professional
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store repositories.Store) error {
		professional, err := store.Professionals().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		applyProfessionalInput(professional, in)
		if err := store.Professionals().Update(ctx, professional); err != nil {
			return err
		}
		updated = professional
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sync.Changed(ctx, updated)
	return updated, nil
}

// Delete removes a professional together with its reviews and service requests
func (s *ProfessionalService) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store repositories.Store) error {
		if _, err := store.Professionals().GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if err := store.ServiceRequests().DeleteByProfessional(ctx, id); err != nil {
			return err
		}
		if err := store.Reviews().DeleteByProfessional(ctx, id); err != nil {
			return err
		}
		return store.Professionals().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.sync.Removed(ctx, id)
	return nil
}

// Reviews returns a professional's reviews newest first
func (s *ProfessionalService) Reviews(ctx context.Context, id int64) ([]*entities.Review, error) {
	if _, err := s.reads.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Reviews().List(ctx, repositories.ReviewFilter{ProfessionalID: &id})
}

// Search finds professionals through the search index, falling back to the database
// when the index is unavailable
func (s *ProfessionalService) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Professional, error) {
	params.Query = strings.TrimSpace(params.Query)
	if params.Category != "" && !entities.IsValidCategory(params.Category) {
		return []*entities.Professional{}, nil
	}

	if s.search != nil {
		ids, err := s.search.Search(ctx, params)
		if err == nil {
			return s.store.Professionals().GetByIDs(ctx, ids)
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("query", params.Query).Msg("search index unavailable, falling back to database")
	}

	return s.store.Professionals().Search(ctx, params)
}

// Reindex pushes every stored professional to the search index
func (s *ProfessionalService) Reindex(ctx context.Context) (int, error) {
	professionals, err := s.store.Professionals().List(ctx, repositories.ProfessionalFilter{})
	if err != nil {
		return 0, err
	}
	return s.sync.Reindex(ctx, professionals), nil
}

func validateCategory(category string) error {
	if !entities.IsValidCategory(category) {
		return apperrors.NewValidationError(fmt.Sprintf("invalid category: %s", category))
	}
	return nil
}

func applyProfessionalInput(p *entities.Professional, in ProfessionalInput) {
	p.Name = valueOr(in.Name, p.Name)
	p.Category = valueOr(in.Category, p.Category)
	p.Distance = valueOr(in.Distance, p.Distance)
	p.Price = valueOr(in.Price, p.Price)
	p.Avatar = valueOr(in.Avatar, p.Avatar)
	p.Phone = valueOr(in.Phone, p.Phone)
	p.Description = valueOr(in.Description, p.Description)
	p.Location = valueOr(in.Location, p.Location)
	if in.Available != nil {
		p.Available = *in.Available
	}
	if in.Specialties != nil {
		p.Specialties = append([]string{}, (*in.Specialties)...)
	}
}
