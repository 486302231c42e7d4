package services

import (
	"context"
	"fmt"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	apperrors "github.com/servicios-app/backend/pkg/errors"
)

// ServiceRequestInput carries client-supplied booking fields; nil fields are absent.
// estimated_budget may be cleared with an explicit null.
type ServiceRequestInput struct {
	ClientName      *string `json:"client_name"`
	ClientPhone     *string `json:"client_phone"`
	ProfessionalID  *int64  `json:"professional_id"`
	ServiceDate     *string `json:"service_date"`
	ServiceTime     *string `json:"service_time"`
	Address         *string `json:"address"`
	Description     *string `json:"description"`
	EstimatedBudget NullableString `json:"estimated_budget"`
	Status          *string        `json:"status"`
}

// ServiceRequestService handles booking requests
type ServiceRequestService struct {
	store repositories.Store
	tx    repositories.TxRunner
}

// NewServiceRequestService creates a new service request service
func NewServiceRequestService(store repositories.Store, tx repositories.TxRunner) *ServiceRequestService {
	return &ServiceRequestService{store: store, tx: tx}
}

// List returns service requests newest first, optionally for one professional
func (s *ServiceRequestService) List(ctx context.Context, professionalID *int64) ([]*entities.ServiceRequest, error) {
	return s.store.ServiceRequests().List(ctx, repositories.ServiceRequestFilter{ProfessionalID: professionalID})
}

// Get retrieves a service request by ID
func (s *ServiceRequestService) Get(ctx context.Context, id int64) (*entities.ServiceRequest, error) {
	return s.store.ServiceRequests().GetByID(ctx, id)
}

// Create books a new request against an existing professional. The status always
// starts as pending.
func (s *ServiceRequestService) Create(ctx context.Context, in ServiceRequestInput) (*entities.ServiceRequest, error) {
	if err := checkRequired(
		stringField("client_name", in.ClientName),
		stringField("client_phone", in.ClientPhone),
		presentField("professional_id", in.ProfessionalID),
		stringField("service_date", in.ServiceDate),
		stringField("service_time", in.ServiceTime),
		stringField("address", in.Address),
		stringField("description", in.Description),
	); err != nil {
		return nil, err
	}

	request := &entities.ServiceRequest{
		ClientName:      *in.ClientName,
		ClientPhone:     *in.ClientPhone,
		ProfessionalID:  *in.ProfessionalID,
		Address:         *in.Address,
		Description:     *in.Description,
		EstimatedBudget: in.EstimatedBudget.Value,
		Status:          entities.ServiceRequestStatusPending,
	}
	if err := applySchedule(request, in); err != nil {
		return nil, err
	}

	var created *entities.ServiceRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store repositories.Store) error {
		if _, err := store.Professionals().GetByID(ctx, request.ProfessionalID); err != nil {
			return err
		}
		if err := store.ServiceRequests().Create(ctx, request); err != nil {
			return err
		}
		var err error
		created, err = store.ServiceRequests().GetByID(ctx, request.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the present fields of in to a service request
func (s *ServiceRequestService) Update(ctx context.Context, id int64, in ServiceRequestInput) (*entities.ServiceRequest, error) {
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	var updated *entities.ServiceRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store repositories.Store) error {
		request, err := store.ServiceRequests().GetByID(ctx, id)
		if err != nil {
			return err
		}

		request.ClientName = valueOr(in.ClientName, request.ClientName)
		request.ClientPhone = valueOr(in.ClientPhone, request.ClientPhone)
		request.Address = valueOr(in.Address, request.Address)
		request.Description = valueOr(in.Description, request.Description)
		if in.EstimatedBudget.Set {
			request.EstimatedBudget = in.EstimatedBudget.Value
		}
		if in.Status != nil {
			request.Status = entities.ServiceRequestStatus(*in.Status)
		}
		if err := applySchedule(request, in); err != nil {
			return err
		}

		if err := store.ServiceRequests().Update(ctx, request); err != nil {
			return err
		}
		updated, err = store.ServiceRequests().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus changes only the status; an invalid value leaves the request untouched
func (s *ServiceRequestService) UpdateStatus(ctx context.Context, id int64, status *string) (*entities.ServiceRequest, error) {
	if status == nil {
		return nil, apperrors.NewMissingFieldsError([]string{"status"})
	}
	if err := validateStatus(*status); err != nil {
		return nil, err
	}

	if err := s.store.ServiceRequests().UpdateStatus(ctx, id, entities.ServiceRequestStatus(*status)); err != nil {
		return nil, err
	}
	return s.store.ServiceRequests().GetByID(ctx, id)
}

// Delete removes a service request
func (s *ServiceRequestService) Delete(ctx context.Context, id int64) error {
	return s.store.ServiceRequests().Delete(ctx, id)
}

// applySchedule parses whichever of service_date and service_time are present
func applySchedule(request *entities.ServiceRequest, in ServiceRequestInput) error {
	if in.ServiceDate != nil {
		date, err := entities.ParseServiceDate(*in.ServiceDate)
		if err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("invalid service_date %q: expected YYYY-MM-DD", *in.ServiceDate))
		}
		request.ServiceDate = date
	}
	if in.ServiceTime != nil {
		t, err := entities.ParseServiceTime(*in.ServiceTime)
		if err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("invalid service_time %q: expected HH:MM", *in.ServiceTime))
		}
		request.ServiceTime = t
	}
	return nil
}

func validateStatus(status string) error {
	if !entities.ServiceRequestStatus(status).IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid status: %s", status))
	}
	return nil
}
