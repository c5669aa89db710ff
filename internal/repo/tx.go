package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repos bundles repositories bound to a single database transaction.
// It is handed to the TxManager callback so every read and write inside the
// callback shares one transaction.
type Repos struct {
	Trips   TripRepo
	Clients ClientRepo
	Users   UserRepo
}

// TxManager runs a function inside one database transaction. The trip
// service uses it for every read-modify-write sequence (load trip → compute
// cost → store) so a concurrent edit to the same trip cannot produce a lost
// update, and the client service uses it so the has-trips check and the
// delete see the same snapshot.
type TxManager interface {
	// WithTx begins a transaction, calls fn with repos bound to it, and
	// commits on nil return or rolls back on error (and on panic).
	WithTx(ctx context.Context, fn func(r Repos) error) error
}

// pgTxManager is the pgxpool-backed TxManager.
type pgTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager constructs a TxManager on top of the connection pool.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgTxManager{pool: pool}
}

// WithTx delegates transaction begin/commit/rollback to pgx.BeginFunc.
func (m *pgTxManager) WithTx(ctx context.Context, fn func(r Repos) error) error {
	err := pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(Repos{
			Trips:   NewTripRepo(tx),
			Clients: NewClientRepo(tx),
			Users:   NewUserRepo(tx),
		})
	})
	if err != nil {
		return fmt.Errorf("repo.TxManager.WithTx: %w", err)
	}
	return nil
}
