package database_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

var professionalColumns = []string{
	"id", "name", "category", "rating", "reviews_count", "distance", "available",
	"specialties", "price", "avatar", "phone", "description", "location",
	"created_at", "updated_at",
}

func professionalRow(rows *sqlmock.Rows, id int64, name, specialties string) *sqlmock.Rows {
	return rows.AddRow(id, name, "electricista", 4.5, 2, "1.2 km", true,
		specialties, "$2500/h", "CM", "+54 342 555-0101", "Electricista matriculado", "Santa Fe",
		fixedTime, fixedTime)
}
