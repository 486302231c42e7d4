package repositories

import (
	"context"

	"github.com/servicios-app/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *entities.Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id int64) (*entities.Review, error)

	// List retrieves reviews newest first
	List(ctx context.Context, filter ReviewFilter) ([]*entities.Review, error)

	// Update updates a review
	Update(ctx context.Context, review *entities.Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id int64) error

	// Summarize returns the count and rating sum of a professional's reviews
	Summarize(ctx context.Context, professionalID int64) (entities.RatingSummary, error)

	// DeleteByProfessional removes every review of a professional
	DeleteByProfessional(ctx context.Context, professionalID int64) error
}

// ReviewFilter defines filters for listing reviews
type ReviewFilter struct {
	ProfessionalID *int64
}
