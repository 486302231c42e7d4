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

const (
	usersTable    = "users"
	sessionsTable = "auth_sessions"
)

var userColumns = []interface{}{"id", "username", "email", "password_hash", "created_at"}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	db sqlx.ExtContext
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(db sqlx.ExtContext) repositories.UserRepository {
	return &UserAdapter{db: db}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	user.CreatedAt = time.Now().UTC()

	query, args, err := dialect.Insert(usersTable).
		Rows(goqu.Record{
			"username":      user.Username,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"created_at":    user.CreatedAt,
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.db.QueryRowxContext(ctx, query, args...).Scan(&user.ID); err != nil {
		if isPQError(err, pqUniqueViolation) {
			return apperrors.NewConflictError(fmt.Sprintf("username %q is already taken", user.Username))
		}
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %d not found", id))
}

// GetByUsername retrieves a user by username
func (a *UserAdapter) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"username": username}, fmt.Sprintf("user %q not found", username))
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.User, error) {
	query, args, err := dialect.From(usersTable).
		Select(userColumns...).
		Where(where).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	err = sqlx.GetContext(ctx, a.db, user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// SessionAdapter implements the SessionRepository interface
type SessionAdapter struct {
	db sqlx.ExtContext
}

// NewSessionAdapter creates a new session adapter
func NewSessionAdapter(db sqlx.ExtContext) repositories.SessionRepository {
	return &SessionAdapter{db: db}
}

// Create stores a new session
func (a *SessionAdapter) Create(ctx context.Context, session *entities.Session) error {
	query, args, err := dialect.Insert(sessionsTable).
		Rows(goqu.Record{
			"token_hash": session.TokenHash,
			"user_id":    session.UserID,
			"created_at": session.CreatedAt,
			"expires_at": session.ExpiresAt,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return wrapWriteError(err, "failed to create session")
	}
	return nil
}

// GetByTokenHash retrieves a session by the hash of its token
func (a *SessionAdapter) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	query, args, err := dialect.From(sessionsTable).
		Select("token_hash", "user_id", "created_at", "expires_at").
		Where(goqu.Ex{"token_hash": tokenHash}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	session := &entities.Session{}
	err = sqlx.GetContext(ctx, a.db, session, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("session not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get session", err)
	}
	return session, nil
}

// Delete revokes a session
func (a *SessionAdapter) Delete(ctx context.Context, tokenHash string) error {
	query, args, err := dialect.Delete(sessionsTable).
		Where(goqu.Ex{"token_hash": tokenHash}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	return expectOneRow(result, "session not found")
}

// DeleteExpired purges sessions that expired before now and returns how many were removed
func (a *SessionAdapter) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := dialect.Delete(sessionsTable).
		Where(goqu.C("expires_at").Lte(now)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to delete expired sessions", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get affected rows", err)
	}
	return removed, nil
}
