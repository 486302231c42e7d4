package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/repositories"
	apperrors "github.com/servicios-app/backend/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const tokenBytes = 16

const (
	msgInvalidCredentials = "invalid credentials"
	msgInvalidToken       = "invalid or expired token"
)

// RegisterInput carries registration fields; nil fields are absent
type RegisterInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// LoginInput carries login fields; nil fields are absent
type LoginInput struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// AuthResult is returned by a successful registration or login
type AuthResult struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// AuthOptions tunes the auth service
type AuthOptions struct {
	TokenTTL time.Duration
	HashCost int
	Now      func() time.Time
}

// AuthService registers users and issues, verifies and revokes session tokens
type AuthService struct {
	store     repositories.Store
	tx        repositories.TxRunner
	tokenTTL  time.Duration
	hashCost  int
	now       func() time.Time
	dummyHash []byte
}

// NewAuthService creates a new auth service
func NewAuthService(store repositories.Store, tx repositories.TxRunner, opts AuthOptions) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// Compared against when the username is unknown so both failure paths cost a bcrypt check
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), opts.HashCost)

	return &AuthService{
		store:     store,
		tx:        tx,
		tokenTTL:  opts.TokenTTL,
		hashCost:  opts.HashCost,
		now:       opts.Now,
		dummyHash: dummyHash,
	}
}

// Register creates a user and logs them in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := checkRequired(
		stringField("username", in.Username),
		stringField("email", in.Email),
		stringField("password", in.Password),
	); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(*in.Username)
	if _, err := s.store.Users().GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflictError("username is already taken")
	} else if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperrors.NewValidationError("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		Username:     username,
		Email:        strings.TrimSpace(*in.Email),
		PasswordHash: string(hash),
	}

	var token string
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store repositories.Store) error {
		if err := store.Users().Create(ctx, user); err != nil {
			return err
		}
		var err error
		token, err = s.issueToken(ctx, store, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a new token. Unknown users and wrong passwords
// produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := checkRequired(
		stringField("username", in.Username),
		presentField("password", in.Password),
	); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(*in.Username))
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(*in.Password))
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*in.Password)); err != nil {
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	token, err := s.issueToken(ctx, s.store, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("missing token")
	}

	session, err := s.store.Sessions().GetByTokenHash(ctx, hashToken(token))
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError(msgInvalidToken)
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now()) {
		_ = s.store.Sessions().Delete(ctx, session.TokenHash)
		return nil, apperrors.NewUnauthorizedError(msgInvalidToken)
	}

	user, err := s.store.Users().GetByID(ctx, session.UserID)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError(msgInvalidToken)
	}
	return user, err
}

// Logout revokes a token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.NewUnauthorizedError("missing token")
	}
	err := s.store.Sessions().Delete(ctx, hashToken(token))
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return apperrors.NewUnauthorizedError(msgInvalidToken)
	}
	return err
}

// PurgeExpiredSessions deletes sessions past their expiry
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.store.Sessions().DeleteExpired(ctx, s.now())
}

func (s *AuthService) issueToken(ctx context.Context, store repositories.Store, userID int64) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", apperrors.NewInternalError("failed to generate token", err)
	}
	token := hex.EncodeToString(raw)

	now := s.now().UTC()
	session := &entities.Session{
		TokenHash: hashToken(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := store.Sessions().Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
