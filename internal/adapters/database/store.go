package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/servicios-app/backend/internal/infrastructure/clients/postgres"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
	apperrors "github.com/servicios-app/backend/pkg/errors"
)

// Store binds every entity adapter to one connection pool or transaction
type Store struct {
	users           repositories.UserRepository
	sessions        repositories.SessionRepository
	professionals   repositories.ProfessionalRepository
	serviceRequests repositories.ServiceRequestRepository
	reviews         repositories.ReviewRepository
}

// NewStore creates a store running statements directly on the connection pool
func NewStore(client *postgres.Client, metrics *observability.Metrics) *Store {
	return newStore(instrument(client.DB(), metrics))
}

func newStore(q sqlx.ExtContext) *Store {
	return &Store{
		users:           NewUserAdapter(q),
		sessions:        NewSessionAdapter(q),
		professionals:   NewProfessionalAdapter(q),
		serviceRequests: NewServiceRequestAdapter(q),
		reviews:         NewReviewAdapter(q),
	}
}

func (s *Store) Users() repositories.UserRepository                     { return s.users }
func (s *Store) Sessions() repositories.SessionRepository               { return s.sessions }
func (s *Store) Professionals() repositories.ProfessionalRepository     { return s.professionals }
func (s *Store) ServiceRequests() repositories.ServiceRequestRepository { return s.serviceRequests }
func (s *Store) Reviews() repositories.ReviewRepository                 { return s.reviews }

// Transactor implements repositories.TxRunner on top of the PostgreSQL client
type Transactor struct {
	client  *postgres.Client
	metrics *observability.Metrics
}

// NewTransactor creates a new transaction runner
func NewTransactor(client *postgres.Client, metrics *observability.Metrics) *Transactor {
	return &Transactor{client: client, metrics: metrics}
}

// WithinTx runs fn with a store bound to a fresh transaction. A panic in fn rolls the
// transaction back before being re-raised.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store repositories.Store) error) (err error) {
	tx, err := t.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, newStore(instrument(tx, t.metrics))); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			observability.LoggerFromContext(ctx).Error().Err(rbErr).Msg("failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}
