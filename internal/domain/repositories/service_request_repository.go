package repositories

import (
	"context"

	"github.com/servicios-app/backend/internal/domain/entities"
)

// ServiceRequestRepository defines the interface for booking request operations.
// Reads return ProfessionalName resolved through a join.
type ServiceRequestRepository interface {
	Create(ctx context.Context, request *entities.ServiceRequest) error
	GetByID(ctx context.Context, id int64) (*entities.ServiceRequest, error)
	List(ctx context.Context, filter ServiceRequestFilter) ([]*entities.ServiceRequest, error)
	Update(ctx context.Context, request *entities.ServiceRequest) error
	UpdateStatus(ctx context.Context, id int64, status entities.ServiceRequestStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteByProfessional(ctx context.Context, professionalID int64) error
}

// ServiceRequestFilter defines filters for listing service requests
type ServiceRequestFilter struct {
	ProfessionalID *int64
}
