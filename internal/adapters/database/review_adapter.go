package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	apperrors "github.com/servicios-app/backend/pkg/errors"
)

const reviewsTable = "reviews"

var reviewColumns = []interface{}{
	"id", "professional_id", "client_name", "client_avatar", "rating", "comment",
	"created_at", "updated_at",
}

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	db sqlx.ExtContext
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(db sqlx.ExtContext) repositories.ReviewRepository {
	return &ReviewAdapter{db: db}
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	now := time.Now().UTC()
	query, args, err := dialect.Insert(reviewsTable).
		Rows(goqu.Record{
			"professional_id": review.ProfessionalID,
			"client_name":     review.ClientName,
			"client_avatar":   review.ClientAvatar,
			"rating":          review.Rating,
			"comment":         review.Comment,
			"created_at":      now,
			"updated_at":      now,
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.db.QueryRowxContext(ctx, query, args...).Scan(&review.ID); err != nil {
		return wrapWriteError(err, "failed to create review")
	}

	review.CreatedAt = now
	review.UpdatedAt = now
	return nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id int64) (*entities.Review, error) {
	query, args, err := dialect.From(reviewsTable).
		Select(reviewColumns...).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	review := &entities.Review{}
	err = sqlx.GetContext(ctx, a.db, review, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}
	return review, nil
}

// List retrieves reviews newest first
func (a *ReviewAdapter) List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Review, error) {
	ds := dialect.From(reviewsTable).
		Select(reviewColumns...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())
	if filter.ProfessionalID != nil {
		ds = ds.Where(goqu.Ex{"professional_id": *filter.ProfessionalID})
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reviews := make([]*entities.Review, 0)
	if err := sqlx.SelectContext(ctx, a.db, &reviews, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	return reviews, nil
}

// Update updates a review
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	review.UpdatedAt = time.Now().UTC()

	query, args, err := dialect.Update(reviewsTable).
		Set(goqu.Record{
			"professional_id": review.ProfessionalID,
			"client_name":     review.ClientName,
			"client_avatar":   review.ClientAvatar,
			"rating":          review.Rating,
			"comment":         review.Comment,
			"updated_at":      review.UpdatedAt,
		}).
		Where(goqu.Ex{"id": review.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapWriteError(err, "failed to update review")
	}
	return expectOneRow(result, fmt.Sprintf("review with id %d not found", review.ID))
}

// Delete deletes a review
func (a *ReviewAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(reviewsTable).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete review", err)
	}
	return expectOneRow(result, fmt.Sprintf("review with id %d not found", id))
}

// Summarize returns the review count and rating sum for a professional
func (a *ReviewAdapter) Summarize(ctx context.Context, professionalID int64) (entities.RatingSummary, error) {
	query, args, err := dialect.From(reviewsTable).
		Select(
			goqu.COUNT("*"),
			goqu.COALESCE(goqu.SUM("rating"), 0),
		).
		Where(goqu.Ex{"professional_id": professionalID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return entities.RatingSummary{}, apperrors.NewInternalError("failed to build summary query", err)
	}

	var summary entities.RatingSummary
	if err := a.db.QueryRowxContext(ctx, query, args...).Scan(&summary.Count, &summary.Sum); err != nil {
		return entities.RatingSummary{}, apperrors.NewInternalError("failed to summarize reviews", err)
	}
	return summary, nil
}

// DeleteByProfessional removes all reviews of a professional
func (a *ReviewAdapter) DeleteByProfessional(ctx context.Context, professionalID int64) error {
	query, args, err := dialect.Delete(reviewsTable).
		Where(goqu.Ex{"professional_id": professionalID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete reviews", err)
	}
	return nil
}
