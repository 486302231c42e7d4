package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
	apperrors "github.com/servicios-app/backend/pkg/errors"
)

// dialect renders $n placeholders so queries can be handed straight to lib/pq
var dialect = goqu.Dialect("postgres")

// Postgres error codes the adapters translate
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// instrumentedQueryer records the duration of every statement it runs
type instrumentedQueryer struct {
	sqlx.ExtContext
	metrics *observability.Metrics
}

func instrument(q sqlx.ExtContext, metrics *observability.Metrics) sqlx.ExtContext {
	if metrics == nil {
		return q
	}
	return &instrumentedQueryer{ExtContext: q, metrics: metrics}
}

func (q *instrumentedQueryer) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer q.record(ctx, query, time.Now())
	return q.ExtContext.ExecContext(ctx, query, args...)
}

func (q *instrumentedQueryer) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer q.record(ctx, query, time.Now())
	return q.ExtContext.QueryContext(ctx, query, args...)
}

func (q *instrumentedQueryer) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	defer q.record(ctx, query, time.Now())
	return q.ExtContext.QueryxContext(ctx, query, args...)
}

func (q *instrumentedQueryer) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	defer q.record(ctx, query, time.Now())
	return q.ExtContext.QueryRowxContext(ctx, query, args...)
}

func (q *instrumentedQueryer) record(ctx context.Context, query string, start time.Time) {
	observability.RecordDBMetric(ctx, q.metrics, operationName(query), time.Since(start))
}

// operationName returns the leading SQL verb, e.g. SELECT or INSERT
func operationName(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(fields[0])
}

// isPQError reports whether err is a Postgres error with the given code
func isPQError(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}

// wrapWriteError maps constraint violations to typed application errors
func wrapWriteError(err error, msg string) error {
	switch {
	case isPQError(err, pqUniqueViolation):
		return apperrors.NewConflictError(msg + ": already exists")
	case isPQError(err, pqForeignKeyViolation):
		return apperrors.NewNotFoundError(msg + ": referenced record not found")
	default:
		return apperrors.NewInternalError(msg, err)
	}
}

// expectOneRow turns a zero-row UPDATE or DELETE into a NotFound error
func expectOneRow(result sql.Result, notFoundMsg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get affected rows", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return nil
}
