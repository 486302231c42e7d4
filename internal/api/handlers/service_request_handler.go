package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/servicios-app/backend/internal/application/services"
	"github.com/servicios-app/backend/internal/domain/entities"
)

// ServiceRequestService defines the booking operations used by the handler
type ServiceRequestService interface {
	List(ctx context.Context, professionalID *int64) ([]*entities.ServiceRequest, error)
	Get(ctx context.Context, id int64) (*entities.ServiceRequest, error)
	Create(ctx context.Context, in services.ServiceRequestInput) (*entities.ServiceRequest, error)
	Update(ctx context.Context, id int64, in services.ServiceRequestInput) (*entities.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int64, status *string) (*entities.ServiceRequest, error)
	Delete(ctx context.Context, id int64) error
}

// ServiceRequestHandler handles booking requests
type ServiceRequestHandler struct {
	service ServiceRequestService
}

// NewServiceRequestHandler creates a new service request handler
func NewServiceRequestHandler(service ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		service: service,
	}
}

type serviceRequestResponse struct {
	ID               int64     `json:"id"`
	ClientName       string    `json:"client_name"`
	ClientPhone      string    `json:"client_phone"`
	ProfessionalID   int64     `json:"professional_id"`
	ProfessionalName *string   `json:"professional_name"`
	ServiceDate      string    `json:"service_date"`
	ServiceTime      string    `json:"service_time"`
	Address          string    `json:"address"`
	Description      string    `json:"description"`
	EstimatedBudget  *string   `json:"estimated_budget"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newServiceRequestResponse(sr *entities.ServiceRequest) serviceRequestResponse {
	return serviceRequestResponse{
		ID:               sr.ID,
		ClientName:       sr.ClientName,
		ClientPhone:      sr.ClientPhone,
		ProfessionalID:   sr.ProfessionalID,
		ProfessionalName: sr.ProfessionalName,
		ServiceDate:      sr.ServiceDate.Format(entities.ServiceDateLayout),
		ServiceTime:      sr.ServiceTime.Format(entities.ServiceTimeLayout),
		Address:          sr.Address,
		Description:      sr.Description,
		EstimatedBudget:  sr.EstimatedBudget,
		Status:           string(sr.Status),
		CreatedAt:        sr.CreatedAt,
		UpdatedAt:        sr.UpdatedAt,
	}
}

// ListServiceRequests handles GET /api/service-requests
func (h *ServiceRequestHandler) ListServiceRequests(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := queryID(w, r, "professional_id")
	if !ok {
		return
	}

	requests, err := h.service.List(r.Context(), professionalID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	out := make([]serviceRequestResponse, 0, len(requests))
	for _, sr := range requests {
		out = append(out, newServiceRequestResponse(sr))
	}
	respondWithJSON(w, http.StatusOK, out)
}

// GetServiceRequest handles GET /api/service-requests/{id}
func (h *ServiceRequestHandler) GetServiceRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	request, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newServiceRequestResponse(request))
}

// CreateServiceRequest handles POST /api/service-requests
func (h *ServiceRequestHandler) CreateServiceRequest(w http.ResponseWriter, r *http.Request) {
	var in services.ServiceRequestInput
	if !decodeJSON(r, &in) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	request, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newServiceRequestResponse(request))
}

// UpdateServiceRequest handles PUT /api/service-requests/{id}
func (h *ServiceRequestHandler) UpdateServiceRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in services.ServiceRequestInput
	if !decodeJSON(r, &in) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	request, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newServiceRequestResponse(request))
}

// UpdateServiceRequestStatus handles PUT /api/service-requests/{id}/status
func (h *ServiceRequestHandler) UpdateServiceRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Status *string `json:"status"`
	}
	if !decodeJSON(r, &payload) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	request, err := h.service.UpdateStatus(r.Context(), id, payload.Status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newServiceRequestResponse(request))
}

// DeleteServiceRequest handles DELETE /api/service-requests/{id}
func (h *ServiceRequestHandler) DeleteServiceRequest(w http.ResponseWriter, r *http.Request) {
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
