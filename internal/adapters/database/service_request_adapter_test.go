package database_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/servicios-app/backend/internal/adapters/database"
	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	apperrors "github.com/servicios-app/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceRequestColumns = []string{
	"id", "client_name", "client_phone", "professional_id", "professional_name",
	"service_date", "service_time", "address", "description", "estimated_budget",
	"status", "created_at", "updated_at",
}

func TestServiceRequestAdapter_GetByID_JoinsProfessionalName(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewServiceRequestAdapter(db)

	serviceDate := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	serviceTime := time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN "professionals" AS "p" ON ("p"."id" = "sr"."professional_id")`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(serviceRequestColumns).
			AddRow(5, "Juan", "+54 342 555", 1, "Carlos Mendez", serviceDate, serviceTime,
				"San Martin 1234", "Cambiar tomacorrientes", nil, "pending", fixedTime, fixedTime))

	request, err := adapter.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, request.ProfessionalName)
	assert.Equal(t, "Carlos Mendez", *request.ProfessionalName)
	assert.Nil(t, request.EstimatedBudget)
	assert.Equal(t, entities.ServiceRequestStatusPending, request.Status)
	assert.Equal(t, "14:30", request.ServiceTime.Format(entities.ServiceTimeLayout))
}

func TestServiceRequestAdapter_List_UnresolvedProfessional(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewServiceRequestAdapter(db)

	budget := "$5000"
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY "sr"."created_at" DESC, "sr"."id" DESC`)).
		WillReturnRows(sqlmock.NewRows(serviceRequestColumns).
			AddRow(2, "Ana", "+54", 9, nil, fixedTime, fixedTime, "Belgrano 10", "Pintar", budget, "accepted", fixedTime, fixedTime))

	requests, err := adapter.List(context.Background(), repositories.ServiceRequestFilter{})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Nil(t, requests[0].ProfessionalName)
	require.NotNil(t, requests[0].EstimatedBudget)
	assert.Equal(t, budget, *requests[0].EstimatedBudget)
}

func TestServiceRequestAdapter_Create(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewServiceRequestAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "service_requests"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	request := &entities.ServiceRequest{
		ClientName:     "Juan",
		ClientPhone:    "+54",
		ProfessionalID: 1,
		ServiceDate:    fixedTime,
		ServiceTime:    fixedTime,
		Address:        "San Martin 1234",
		Description:    "Cambiar tomacorrientes",
		Status:         entities.ServiceRequestStatusPending,
	}
	require.NoError(t, adapter.Create(context.Background(), request))
	assert.Equal(t, int64(1), request.ID)
}

func TestServiceRequestAdapter_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewServiceRequestAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "service_requests" SET "status"=$1,"updated_at"=$2 WHERE ("id" = $3)`)).
		WithArgs("accepted", sqlmock.AnyArg(), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, adapter.UpdateStatus(context.Background(), 4, entities.ServiceRequestStatusAccepted))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "service_requests"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := adapter.UpdateStatus(context.Background(), 5, entities.ServiceRequestStatusAccepted)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
