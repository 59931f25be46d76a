package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/duelbot/dexduels/internal/storage"
	"github.com/duelbot/dexduels/pkg/types"
)

// PendingHedge creates a hedge order awaiting replay, offset seconds after
// an arbitrary fixed base time so tests control relative age exactly.
func PendingHedge(id string, venueName string, ageOffset time.Duration) *types.Order {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &types.Order{
		ID:        id,
		HedgeTo:   "arb-" + id,
		Venue:     venueName,
		SymIn:     "flexUSD",
		SymOut:    "BCH",
		AmountOut: 0.1,
		Action:    types.ActionHedge,
		Status:    types.StatusNew,
		Timestamp: base.Add(ageOffset),
	}
}

// FilledArb creates an arb order that already settled as filled.
func FilledArb(id string, venueName string) *types.Order {
	return &types.Order{
		ID:        id,
		Venue:     venueName,
		SymIn:     "BCH",
		SymOut:    "flexUSD",
		AmountIn:  0.1,
		Action:    types.ActionArb,
		Status:    types.StatusFilled,
		Tx:        "0xfixture",
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// FailingStore wraps a real store and fails scripted operations, so tests
// can exercise the fatal storage-error paths.
type FailingStore struct {
	storage.Store

	mu               sync.Mutex
	FailInsert       bool
	FailUpdateStatus bool
	FailFind         bool
}

// NewFailingStore wraps the inner store; nothing fails until a Fail flag is
// set.
func NewFailingStore(inner storage.Store) *FailingStore {
	return &FailingStore{Store: inner}
}

// Insert fails when FailInsert is set, otherwise delegates.
func (s *FailingStore) Insert(ctx context.Context, o *types.Order) error {
	s.mu.Lock()
	fail := s.FailInsert
	s.mu.Unlock()
	if fail {
		return &types.StoreError{Op: "insert", Err: fmt.Errorf("scripted failure")}
	}
	return s.Store.Insert(ctx, o)
}

// UpdateStatus fails when FailUpdateStatus is set, otherwise delegates.
func (s *FailingStore) UpdateStatus(ctx context.Context, id string, status types.Status, tx string) error {
	s.mu.Lock()
	fail := s.FailUpdateStatus
	s.mu.Unlock()
	if fail {
		return &types.StoreError{Op: "update-status", Err: fmt.Errorf("scripted failure")}
	}
	return s.Store.UpdateStatus(ctx, id, status, tx)
}

// FindByStatusAction fails when FailFind is set, otherwise delegates.
func (s *FailingStore) FindByStatusAction(ctx context.Context, status types.Status, action types.Action) ([]*types.Order, error) {
	s.mu.Lock()
	fail := s.FailFind
	s.mu.Unlock()
	if fail {
		return nil, &types.StoreError{Op: "find", Err: fmt.Errorf("scripted failure")}
	}
	return s.Store.FindByStatusAction(ctx, status, action)
}
