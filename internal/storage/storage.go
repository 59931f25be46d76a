package storage

import (
	"context"

	"github.com/duelbot/dexduels/pkg/types"
)

// Store is the persistence capability the duel engine consumes. Every
// order attempted gets a row; rows are never deleted.
type Store interface {
	// Insert persists a freshly created order. It fails on a duplicate id;
	// ids are always newly generated, so a duplicate means a bug upstream.
	Insert(ctx context.Context, o *types.Order) error

	// UpdateStatus moves an existing order to its terminal status. Only the
	// status and transaction result are mutated.
	UpdateStatus(ctx context.Context, id string, status types.Status, tx string) error

	// FindByStatusAction returns all orders matching both filters, oldest
	// first. Startup recovery depends on the ascending timestamp order.
	FindByStatusAction(ctx context.Context, status types.Status, action types.Action) ([]*types.Order, error)

	// Recent returns the most recently created orders, newest first.
	Recent(ctx context.Context, limit int) ([]*types.Order, error)

	// Close closes the storage connection.
	Close() error
}
