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

const serviceRequestsTable = "service_requests"

// ServiceRequestAdapter implements the ServiceRequestRepository interface
type ServiceRequestAdapter struct {
	db sqlx.ExtContext
}

// NewServiceRequestAdapter creates a new service request adapter
func NewServiceRequestAdapter(db sqlx.ExtContext) repositories.ServiceRequestRepository {
	return &ServiceRequestAdapter{db: db}
}

// selectWithProfessional joins the professional's name onto each request
func selectWithProfessional() *goqu.SelectDataset {
	return dialect.From(goqu.T(serviceRequestsTable).As("sr")).
		LeftJoin(
			goqu.T(professionalsTable).As("p"),
			goqu.On(goqu.I("p.id").Eq(goqu.I("sr.professional_id"))),
		).
		Select(
			goqu.I("sr.id"),
			goqu.I("sr.client_name"),
			goqu.I("sr.client_phone"),
			goqu.I("sr.professional_id"),
			goqu.I("p.name").As("professional_name"),
			goqu.I("sr.service_date"),
			goqu.I("sr.service_time"),
			goqu.I("sr.address"),
			goqu.I("sr.description"),
			goqu.I("sr.estimated_budget"),
			goqu.I("sr.status"),
			goqu.I("sr.created_at"),
			goqu.I("sr.updated_at"),
		)
}

func serviceRequestRecord(request *entities.ServiceRequest) goqu.Record {
	return goqu.Record{
		"client_name":      request.ClientName,
		"client_phone":     request.ClientPhone,
		"professional_id":  request.ProfessionalID,
		"service_date":     request.ServiceDate.Format(entities.ServiceDateLayout),
		"service_time":     request.ServiceTime.Format(entities.ServiceTimeLayout),
		"address":          request.Address,
		"description":      request.Description,
		"estimated_budget": nullString(request.EstimatedBudget),
		"status":           string(request.Status),
		"updated_at":       request.UpdatedAt,
	}
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

// Create creates a new service request
func (a *ServiceRequestAdapter) Create(ctx context.Context, request *entities.ServiceRequest) error {
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	record := serviceRequestRecord(request)
	record["created_at"] = now

	query, args, err := dialect.Insert(serviceRequestsTable).
		Rows(record).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.db.QueryRowxContext(ctx, query, args...).Scan(&request.ID); err != nil {
		return wrapWriteError(err, "failed to create service request")
	}
	return nil
}

// GetByID retrieves a service request by ID
func (a *ServiceRequestAdapter) GetByID(ctx context.Context, id int64) (*entities.ServiceRequest, error) {
	query, args, err := selectWithProfessional().
		Where(goqu.I("sr.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	request := &entities.ServiceRequest{}
	err = sqlx.GetContext(ctx, a.db, request, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service request with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service request", err)
	}
	return request, nil
}

// List retrieves service requests newest first
func (a *ServiceRequestAdapter) List(ctx context.Context, filter repositories.ServiceRequestFilter) ([]*entities.ServiceRequest, error) {
	ds := selectWithProfessional().
		Order(goqu.I("sr.created_at").Desc(), goqu.I("sr.id").Desc())
	if filter.ProfessionalID != nil {
		ds = ds.Where(goqu.I("sr.professional_id").Eq(*filter.ProfessionalID))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	requests := make([]*entities.ServiceRequest, 0)
	if err := sqlx.SelectContext(ctx, a.db, &requests, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list service requests", err)
	}
	return requests, nil
}

// Update updates a service request
func (a *ServiceRequestAdapter) Update(ctx context.Context, request *entities.ServiceRequest) error {
	request.UpdatedAt = time.Now().UTC()

	query, args, err := dialect.Update(serviceRequestsTable).
		Set(serviceRequestRecord(request)).
		Where(goqu.Ex{"id": request.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapWriteError(err, "failed to update service request")
	}
	return expectOneRow(result, fmt.Sprintf("service request with id %d not found", request.ID))
}

// UpdateStatus changes only the status of a service request
func (a *ServiceRequestAdapter) UpdateStatus(ctx context.Context, id int64, status entities.ServiceRequestStatus) error {
	query, args, err := dialect.Update(serviceRequestsTable).
		Set(goqu.Record{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update service request status", err)
	}
	return expectOneRow(result, fmt.Sprintf("service request with id %d not found", id))
}

// Delete deletes a service request
func (a *ServiceRequestAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(serviceRequestsTable).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete service request", err)
	}
	return expectOneRow(result, fmt.Sprintf("service request with id %d not found", id))
}

// DeleteByProfessional removes all service requests for a professional
func (a *ServiceRequestAdapter) DeleteByProfessional(ctx context.Context, professionalID int64) error {
	query, args, err := dialect.Delete(serviceRequestsTable).
		Where(goqu.Ex{"professional_id": professionalID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete service requests", err)
	}
	return nil
}
