package repositories

import (
	"context"

	"github.com/servicios-app/backend/internal/domain/entities"
)

// ProfessionalRepository defines the interface for professional data operations
type ProfessionalRepository interface {
	// Create inserts a professional and fills in its generated ID
	Create(ctx context.Context, professional *entities.Professional) error

	// GetByID retrieves a professional by ID
	GetByID(ctx context.Context, id int64) (*entities.Professional, error)

	// GetByIDForUpdate retrieves a professional and locks its row until the
	// surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Professional, error)

	// GetByIDs retrieves professionals by ID, preserving the order of ids
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.Professional, error)

	// List retrieves professionals with filters
	List(ctx context.Context, filter ProfessionalFilter) ([]*entities.Professional, error)

	// Search matches professionals by name, description or specialties
	Search(ctx context.Context, params SearchParams) ([]*entities.Professional, error)

	// Update writes every client-editable column; rating and reviews_count are untouched
	Update(ctx context.Context, professional *entities.Professional) error

	// UpdateRating stores the derived rating aggregate
	UpdateRating(ctx context.Context, id int64, summary entities.RatingSummary) error

	// Delete deletes a professional
	Delete(ctx context.Context, id int64) error
}

// ProfessionalSearchRepository defines the interface for the external search index (Typesense)
type ProfessionalSearchRepository interface {
	// Index upserts a professional document
	Index(ctx context.Context, professional *entities.Professional) error

	// Delete removes a professional from the index
	Delete(ctx context.Context, id int64) error

	// Search returns matching professional IDs in relevance order
	Search(ctx context.Context, params SearchParams) ([]int64, error)
}

// ProfessionalFilter defines filters for listing professionals
type ProfessionalFilter struct {
	Category string
}

// SearchParams defines parameters for professional search
type SearchParams struct {
	Query    string
	Category string
	Limit    int
}
