package services

import (
	"context"
	"fmt"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	apperrors "github.com/servicios-app/backend/pkg/errors"
)

// ReviewInput carries client-supplied review fields; nil fields are absent
type ReviewInput struct {
	ProfessionalID *int64  `json:"professional_id"`
	ClientName     *string `json:"client_name"`
	ClientAvatar   *string `json:"client_avatar"`
	Rating         *int    `json:"rating"`
	Comment        *string `json:"comment"`
}

// ReviewService handles reviews and keeps each professional's rating aggregate in step
// with its review set. Every mutation locks the professional row, applies the change and
// recomputes the aggregate in one transaction.
type ReviewService struct {
	store repositories.Store
	tx    repositories.TxRunner
	sync  *ProfessionalSync
}

// NewReviewService creates a new review service
func NewReviewService(store repositories.Store, tx repositories.TxRunner, sync *ProfessionalSync) *ReviewService {
	return &ReviewService{store: store, tx: tx, sync: sync}
}

// List returns reviews newest first, optionally for one professional
func (s *ReviewService) List(ctx context.Context, professionalID *int64) ([]*entities.Review, error) {
	return s.store.Reviews().List(ctx, repositories.ReviewFilter{ProfessionalID: professionalID})
}

// Get retrieves a review by ID
func (s *ReviewService) Get(ctx context.Context, id int64) (*entities.Review, error) {
	return s.store.Reviews().GetByID(ctx, id)
}

// Create stores a review and refreshes the professional's rating
func (s *ReviewService) Create(ctx context.Context, in ReviewInput) (*entities.Review, error) {
	if err := checkRequired(
		presentField("professional_id", in.ProfessionalID),
		stringField("client_name", in.ClientName),
		stringField("client_avatar", in.ClientAvatar),
		presentField("rating", in.Rating),
		stringField("comment", in.Comment),
	); err != nil {
		return nil, err
	}
	if err := validateRating(*in.Rating); err != nil {
		return nil, err
	}

	review := &entities.Review{
		ProfessionalID: *in.ProfessionalID,
		ClientName:     *in.ClientName,
		ClientAvatar:   *in.ClientAvatar,
		Rating:         *in.Rating,
		Comment:        *in.Comment,
	}

	var professional *entities.Professional
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store repositories.Store) error {
		var err error
		if professional, err = store.Professionals().GetByIDForUpdate(ctx, review.ProfessionalID); err != nil {
			return err
		}
		if err := store.Reviews().Create(ctx, review); err != nil {
			return err
		}
		return refreshRating(ctx, store, professional)
	})
	if err != nil {
		return nil, err
	}

	s.sync.Changed(ctx, professional)
	return review, nil
}

// Update applies the present fields of in to a review. The owning professional cannot
// be changed.
func (s *ReviewService) Update(ctx context.Context, id int64, in ReviewInput) (*entities.Review, error) {
	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
	}

	var review *entities.Review
	var professional *entities.Professional
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store repositories.Store) error {
		var err error
		if review, err = store.Reviews().GetByID(ctx, id); err != nil {
			return err
		}
		if professional, err = store.Professionals().GetByIDForUpdate(ctx, review.ProfessionalID); err != nil {
			return err
		}

		review.ClientName = valueOr(in.ClientName, review.ClientName)
		review.ClientAvatar = valueOr(in.ClientAvatar, review.ClientAvatar)
		review.Comment = valueOr(in.Comment, review.Comment)
		if in.Rating != nil {
			review.Rating = *in.Rating
		}

		if err := store.Reviews().Update(ctx, review); err != nil {
			return err
		}
		return refreshRating(ctx, store, professional)
	})
	if err != nil {
		return nil, err
	}

	s.sync.Changed(ctx, professional)
	return review, nil
}

// Delete removes a review and refreshes the professional's rating
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	var professional *entities.Professional
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store repositories.Store) error {
		review, err := store.Reviews().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if professional, err = store.Professionals().GetByIDForUpdate(ctx, review.ProfessionalID); err != nil {
			return err
		}
		if err := store.Reviews().Delete(ctx, id); err != nil {
			return err
		}
		return refreshRating(ctx, store, professional)
	})
	if err != nil {
		return err
	}

	s.sync.Changed(ctx, professional)
	return nil
}

// refreshRating recomputes the aggregate over the professional's current reviews. The
// caller must hold the professional's row lock.
func refreshRating(ctx context.Context, store repositories.Store, professional *entities.Professional) error {
	summary, err := store.Reviews().Summarize(ctx, professional.ID)
	if err != nil {
		return err
	}
	if err := store.Professionals().UpdateRating(ctx, professional.ID, summary); err != nil {
		return err
	}
	professional.Rating = summary.Average()
	professional.ReviewsCount = summary.Count
	return nil
}

func validateRating(rating int) error {
	if !entities.IsValidRating(rating) {
		return apperrors.NewValidationError(fmt.Sprintf("rating must be between %d and %d", entities.MinReviewRating, entities.MaxReviewRating))
	}
	return nil
}
