package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/pkg/types"
)

// MemoryStore implements Store in process memory. It is the default for
// paper trading and the workhorse for tests; its durability obviously does
// not survive a restart, so live mode should run against Postgres.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*types.Order
	logger *zap.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	logger.Info("memory-store-initialized")
	return &MemoryStore{
		orders: make(map[string]*types.Order),
		logger: logger,
	}
}

// Insert persists a new order, failing on a duplicate id.
func (m *MemoryStore) Insert(ctx context.Context, o *types.Order) error {
	err := o.Validate()
	if err != nil {
		return &types.StoreError{Op: "insert", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.orders[o.ID]
	if exists {
		return &types.StoreError{Op: "insert", Err: fmt.Errorf("duplicate order id %s", o.ID)}
	}

	clone := *o
	m.orders[o.ID] = &clone

	return nil
}

// UpdateStatus mutates only the status and transaction result.
func (m *MemoryStore) UpdateStatus(ctx context.Context, id string, status types.Status, tx string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, exists := m.orders[id]
	if !exists {
		return &types.StoreError{Op: "update", Err: fmt.Errorf("order %s not found", id)}
	}

	o.Status = status
	o.Tx = tx

	return nil
}

// FindByStatusAction returns matching orders, oldest first.
func (m *MemoryStore) FindByStatusAction(ctx context.Context, status types.Status, action types.Action) ([]*types.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*types.Order
	for _, o := range m.orders {
		if o.Status == status && o.Action == action {
			clone := *o
			out = append(out, &clone)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	return out, nil
}

// Recent returns the newest orders first.
func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]*types.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Order, 0, len(m.orders))
	for _, o := range m.orders {
		clone := *o
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	m.logger.Info("closing-memory-store")
	return nil
}
