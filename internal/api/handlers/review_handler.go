package handlers

import (
	"context"
	"net/http"

	"github.com/servicios-app/backend/internal/application/services"
	"github.com/servicios-app/backend/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	List(ctx context.Context, professionalID *int64) ([]*entities.Review, error)
	Get(ctx context.Context, id int64) (*entities.Review, error)
	Create(ctx context.Context, in services.ReviewInput) (*entities.Review, error)
	Update(ctx context.Context, id int64, in services.ReviewInput) (*entities.Review, error)
	Delete(ctx context.Context, id int64) error
}

// ReviewHandler handles review requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

// ListReviews handles GET /api/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := queryID(w, r, "professional_id")
	if !ok {
		return
	}

	reviews, err := h.service.List(r.Context(), professionalID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	review, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in services.ReviewInput
	if !decodeJSON(r, &in) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	review, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// UpdateReview handles PUT /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in services.ReviewInput
	if !decodeJSON(r, &in) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	review, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
