package database_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/servicios-app/backend/internal/adapters/database"
	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	apperrors "github.com/servicios-app/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfessionalAdapter_Create(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewProfessionalAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "professionals"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	professional := &entities.Professional{
		Name:        "Carlos Mendez",
		Category:    "electricista",
		Distance:    "1.2 km",
		Price:       "$2500/h",
		Avatar:      "CM",
		Specialties: []string{"Instalaciones"},
		Location:    entities.DefaultLocation,
		Available:   true,
	}
	require.NoError(t, adapter.Create(context.Background(), professional))
	assert.Equal(t, int64(7), professional.ID)
	assert.False(t, professional.CreatedAt.IsZero())
}

func TestProfessionalAdapter_GetByID(t *testing.T) {
	t.Run("decodes specialties", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := database.NewProfessionalAdapter(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM "professionals" WHERE ("id" = $1)`)).
			WithArgs(int64(1)).
			WillReturnRows(professionalRow(sqlmock.NewRows(professionalColumns), 1, "Carlos Mendez", `["Instalaciones","Reparaciones"]`))

		professional, err := adapter.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Carlos Mendez", professional.Name)
		assert.Equal(t, []string{"Instalaciones", "Reparaciones"}, professional.Specialties)
		assert.Equal(t, 4.5, professional.Rating)
		assert.Equal(t, 2, professional.ReviewsCount)
	})

	t.Run("malformed specialties degrade to raw text", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := database.NewProfessionalAdapter(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM "professionals"`)).
			WillReturnRows(professionalRow(sqlmock.NewRows(professionalColumns), 1, "Carlos Mendez", "Instalaciones"))

		professional, err := adapter.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Instalaciones"}, professional.Specialties)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := database.NewProfessionalAdapter(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM "professionals"`)).
			WillReturnRows(sqlmock.NewRows(professionalColumns))

		_, err := adapter.GetByID(context.Background(), 99)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("driver failure is internal", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := database.NewProfessionalAdapter(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM "professionals"`)).
			WillReturnError(errors.New("connection reset"))

		_, err := adapter.GetByID(context.Background(), 1)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})
}

func TestProfessionalAdapter_GetByIDForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewProfessionalAdapter(db)

	mock.ExpectQuery(`FROM "professionals" WHERE \("id" = \$1\) FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(professionalRow(sqlmock.NewRows(professionalColumns), 3, "Roberto Silva", `[]`))

	professional, err := adapter.GetByIDForUpdate(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), professional.ID)
}

func TestProfessionalAdapter_List(t *testing.T) {
	t.Run("filters by category in id order", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := database.NewProfessionalAdapter(db)

		rows := sqlmock.NewRows(professionalColumns)
		professionalRow(rows, 1, "Carlos Mendez", `[]`)
		professionalRow(rows, 4, "Ana Torres", `[]`)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE ("category" = $1) ORDER BY "id" ASC`)).
			WithArgs("electricista").
			WillReturnRows(rows)

		professionals, err := adapter.List(context.Background(), repositories.ProfessionalFilter{Category: "electricista"})
		require.NoError(t, err)
		require.Len(t, professionals, 2)
		assert.Equal(t, "Ana Torres", professionals[1].Name)
	})

	t.Run("no rows yields an empty slice", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := database.NewProfessionalAdapter(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM "professionals"`)).
			WillReturnRows(sqlmock.NewRows(professionalColumns))

		professionals, err := adapter.List(context.Background(), repositories.ProfessionalFilter{Category: "astronauta"})
		require.NoError(t, err)
		assert.NotNil(t, professionals)
		assert.Empty(t, professionals)
	})
}

func TestProfessionalAdapter_GetByIDs_PreservesOrder(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewProfessionalAdapter(db)

	rows := sqlmock.NewRows(professionalColumns)
	professionalRow(rows, 1, "Carlos Mendez", `[]`)
	professionalRow(rows, 2, "Maria Gonzalez", `[]`)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE ("id" IN ($1, $2, $3))`)).
		WillReturnRows(rows)

	professionals, err := adapter.GetByIDs(context.Background(), []int64{2, 9, 1})
	require.NoError(t, err)
	require.Len(t, professionals, 2)
	assert.Equal(t, int64(2), professionals[0].ID)
	assert.Equal(t, int64(1), professionals[1].ID)
}

func TestProfessionalAdapter_Search(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewProfessionalAdapter(db)

	mock.ExpectQuery(`"name" ILIKE \$1`).
		WillReturnRows(professionalRow(sqlmock.NewRows(professionalColumns), 1, "Carlos Mendez", `["Instalaciones"]`))

	professionals, err := adapter.Search(context.Background(), repositories.SearchParams{Query: "instal"})
	require.NoError(t, err)
	require.Len(t, professionals, 1)
}

func TestProfessionalAdapter_Update(t *testing.T) {
	t.Run("does not touch derived rating columns", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := database.NewProfessionalAdapter(db)

		mock.ExpectExec(`UPDATE "professionals" SET "available"=\$1,"avatar"=\$2,"category"=\$3,"description"=\$4,"distance"=\$5,"location"=\$6,"name"=\$7,"phone"=\$8,"price"=\$9,"specialties"=\$10,"updated_at"=\$11 WHERE`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.Update(context.Background(), &entities.Professional{ID: 1, Name: "Carlos"})
		require.NoError(t, err)
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := database.NewProfessionalAdapter(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "professionals"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.Update(context.Background(), &entities.Professional{ID: 42})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestProfessionalAdapter_UpdateRating(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewProfessionalAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "professionals" SET "rating"=$1,"reviews_count"=$2 WHERE ("id" = $3)`)).
		WithArgs(4.7, int64(3), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.UpdateRating(context.Background(), 5, entities.RatingSummary{Count: 3, Sum: 14}))
}

func TestProfessionalAdapter_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := database.NewProfessionalAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "professionals" WHERE ("id" = $1)`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "professionals"`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, adapter.Delete(context.Background(), 1))
	err := adapter.Delete(context.Background(), 1)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
