package repositories

import "context"

// Store exposes the entity repositories bound to a single connection or transaction.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Professionals() ProfessionalRepository
	ServiceRequests() ServiceRequestRepository
	Reviews() ReviewRepository
}

// TxRunner runs fn inside one database transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
