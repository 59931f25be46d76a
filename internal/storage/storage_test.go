package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"github.com/duelbot/dexduels/pkg/types"
)

func arbOrder(id string, ts time.Time) *types.Order {
	return &types.Order{
		ID:        id,
		Venue:     "benswap",
		SymIn:     "BCH",
		SymOut:    "flexUSD",
		AmountIn:  0.1,
		Action:    types.ActionArb,
		Status:    types.StatusNew,
		Timestamp: ts,
	}
}

func hedgeOrder(id, hedgeTo string, ts time.Time) *types.Order {
	return &types.Order{
		ID:        id,
		HedgeTo:   hedgeTo,
		Venue:     "mistswap",
		SymIn:     "flexUSD",
		SymOut:    "BCH",
		AmountOut: 0.1,
		Action:    types.ActionHedge,
		Status:    types.StatusNew,
		Timestamp: ts,
	}
}

func TestMemoryStoreInsertAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(zap.NewNop())

	order := arbOrder("a1", time.Now())
	err := store.Insert(ctx, order)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	err = store.Insert(ctx, order)
	if err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}

	err = store.UpdateStatus(ctx, "a1", types.StatusFilled, "0xabc")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 order, got %d", len(recent))
	}
	if recent[0].Status != types.StatusFilled || recent[0].Tx != "0xabc" {
		t.Errorf("update not reflected: status=%s tx=%s", recent[0].Status, recent[0].Tx)
	}
}

func TestMemoryStoreUpdateMissingOrder(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())

	err := store.UpdateStatus(context.Background(), "missing", types.StatusFilled, "0xabc")
	if err == nil {
		t.Fatal("expected error updating a missing order")
	}
}

func TestMemoryStoreRejectsInvalidOrder(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())

	// Both amounts set violates the exactly-one invariant.
	bad := arbOrder("bad", time.Now())
	bad.AmountOut = 0.1

	err := store.Insert(context.Background(), bad)
	if err == nil {
		t.Fatal("expected invalid order to be rejected")
	}
}

func TestMemoryStoreFindByStatusActionOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(zap.NewNop())

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of timestamp order on purpose.
	orders := []*types.Order{
		hedgeOrder("h2", "a2", base.Add(2*time.Minute)),
		hedgeOrder("h1", "a1", base.Add(1*time.Minute)),
		hedgeOrder("h3", "a3", base.Add(3*time.Minute)),
		arbOrder("a9", base),
	}
	for _, o := range orders {
		err := store.Insert(ctx, o)
		if err != nil {
			t.Fatalf("insert %s failed: %v", o.ID, err)
		}
	}
	err := store.UpdateStatus(ctx, "h3", types.StatusFilled, "0x1")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	pending, err := store.FindByStatusAction(ctx, types.StatusNew, types.ActionHedge)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	if len(pending) != 2 {
		t.Fatalf("expected 2 pending hedges, got %d", len(pending))
	}
	if pending[0].ID != "h1" || pending[1].ID != "h2" {
		t.Errorf("expected oldest-first [h1 h2], got [%s %s]", pending[0].ID, pending[1].ID)
	}
}

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(zap.NewNop())

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1", "a2", "a3"} {
		err := store.Insert(ctx, arbOrder(id, base.Add(time.Duration(i)*time.Minute)))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(recent))
	}
	if recent[0].ID != "a3" || recent[1].ID != "a2" {
		t.Errorf("expected newest-first [a3 a2], got [%s %s]", recent[0].ID, recent[1].ID)
	}
}

func TestPostgresStoreInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := &PostgresStore{db: db, logger: zap.NewNop()}

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			"a1",
			sqlmock.AnyArg(), // hedge_to, null for arbs
			"benswap",
			"BCH",
			"flexUSD",
			sqlmock.AnyArg(), // amount_in
			sqlmock.AnyArg(), // amount_out
			"Arb",
			"New",
			sqlmock.AnyArg(), // tx
			sqlmock.AnyArg(), // ts
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Insert(context.Background(), arbOrder("a1", time.Now()))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	err = mock.ExpectationsWereMet()
	if err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := &PostgresStore{db: db, logger: zap.NewNop()}

	mock.ExpectExec("INSERT INTO orders").
		WillReturnError(sqlmock.ErrCancelled)

	err = store.Insert(context.Background(), arbOrder("a1", time.Now()))
	if err == nil {
		t.Fatal("expected insert error to propagate")
	}

	var se *types.StoreError
	if !errors.As(err, &se) {
		t.Errorf("expected StoreError, got %T", err)
	}
}

func TestPostgresStoreUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := &PostgresStore{db: db, logger: zap.NewNop()}

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("a1", "Filled", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.UpdateStatus(context.Background(), "a1", types.StatusFilled, "0xabc")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	err = mock.ExpectationsWereMet()
	if err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreUpdateStatusMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := &PostgresStore{db: db, logger: zap.NewNop()}

	mock.ExpectExec("UPDATE orders SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.UpdateStatus(context.Background(), "missing", types.StatusFilled, "0xabc")
	if err == nil {
		t.Fatal("expected zero rows affected to be an error")
	}
}

func TestPostgresStoreFindByStatusAction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := &PostgresStore{db: db, logger: zap.NewNop()}

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "hedge_to", "venue", "sym_in", "sym_out",
		"amount_in", "amount_out", "action", "status", "tx", "ts",
	}).
		AddRow("h1", "a1", "mistswap", "flexUSD", "BCH", nil, 0.1, "Hedge", "New", nil, base).
		AddRow("h2", "a2", "mistswap", "flexUSD", "BCH", nil, 0.1, "Hedge", "New", nil, base.Add(time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("New", "Hedge").
		WillReturnRows(rows)

	orders, err := store.FindByStatusAction(context.Background(), types.StatusNew, types.ActionHedge)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != "h1" || orders[0].HedgeTo != "a1" {
		t.Errorf("unexpected first order: %+v", orders[0])
	}
	if orders[0].Action != types.ActionHedge || orders[0].Status != types.StatusNew {
		t.Errorf("action/status not parsed: %+v", orders[0])
	}
	if orders[0].AmountIn != 0 || orders[0].AmountOut != 0.1 {
		t.Errorf("amounts not parsed: %+v", orders[0])
	}
}

func TestPostgresStoreFindRejectsUnknownAction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := &PostgresStore{db: db, logger: zap.NewNop()}

	rows := sqlmock.NewRows([]string{
		"id", "hedge_to", "venue", "sym_in", "sym_out",
		"amount_in", "amount_out", "action", "status", "tx", "ts",
	}).
		AddRow("x1", nil, "benswap", "BCH", "flexUSD", 0.1, nil, "Mystery", "New", nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WillReturnRows(rows)

	_, err = store.FindByStatusAction(context.Background(), types.StatusNew, types.ActionArb)
	if err == nil {
		t.Fatal("expected unknown action to fail the scan")
	}
}
