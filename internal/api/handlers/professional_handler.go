package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/servicios-app/backend/internal/application/services"
	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
)

// ProfessionalService defines the professional operations used by the handler
type ProfessionalService interface {
	Categories() []entities.Category
	List(ctx context.Context, category string) ([]*entities.Professional, error)
	Get(ctx context.Context, id int64) (*entities.Professional, error)
	Create(ctx context.Context, in services.ProfessionalInput) (*entities.Professional, error)
	Update(ctx context.Context, id int64, in services.ProfessionalInput) (*entities.Professional, error)
	Delete(ctx context.Context, id int64) error
	Reviews(ctx context.Context, id int64) ([]*entities.Review, error)
	Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Professional, error)
}

// ProfessionalHandler handles professional and category requests
type ProfessionalHandler struct {
	service ProfessionalService
}

// NewProfessionalHandler creates a new professional handler
func NewProfessionalHandler(service ProfessionalService) *ProfessionalHandler {
	return &ProfessionalHandler{
		service: service,
	}
}

// ListCategories handles GET /api/categories
func (h *ProfessionalHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Categories())
}

// ListProfessionals handles GET /api/professionals
func (h *ProfessionalHandler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	professionals, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, professionals)
}

// SearchProfessionals handles GET /api/professionals/search
func (h *ProfessionalHandler) SearchProfessionals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := repositories.SearchParams{
		Query:    query.Get("q"),
		Category: query.Get("category"),
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		params.Limit = n
	}

	professionals, err := h.service.Search(r.Context(), params)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, professionals)
}

// GetProfessional handles GET /api/professionals/{id}
func (h *ProfessionalHandler) GetProfessional(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	professional, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, professional)
}

// CreateProfessional handles POST /api/professionals
func (h *ProfessionalHandler) CreateProfessional(w http.ResponseWriter, r *http.Request) {
	var in services.ProfessionalInput
	if !decodeJSON(r, &in) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	professional, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, professional)
}

// UpdateProfessional handles PUT /api/professionals/{id}
func (h *ProfessionalHandler) UpdateProfessional(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in services.ProfessionalInput
	if !decodeJSON(r, &in) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	professional, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, professional)
}

// DeleteProfessional handles DELETE /api/professionals/{id}
func (h *ProfessionalHandler) DeleteProfessional(w http.ResponseWriter, r *http.Request) {
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

// ListProfessionalReviews handles GET /api/professionals/{id}/reviews
func (h *ProfessionalHandler) ListProfessionalReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.Reviews(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}
