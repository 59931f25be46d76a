package engine

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/internal/duel"
	"github.com/duelbot/dexduels/internal/execution"
	"github.com/duelbot/dexduels/internal/storage"
	"github.com/duelbot/dexduels/internal/testutil"
	"github.com/duelbot/dexduels/internal/venue"
	"github.com/duelbot/dexduels/pkg/types"
)

var testPair = types.Pair{Base: "BCH", Quote: "flexUSD"}

func newTestEngine(t *testing.T, store storage.Store, venues ...venue.Venue) *Engine {
	t.Helper()

	registry, err := venue.NewRegistry(venues...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	logger := zap.NewNop()
	scanner := duel.NewScanner(duel.Config{
		Pairs:     []types.Pair{testPair},
		Numeraire: "flexUSD",
		BaseQty:   0.1,
		Threshold: 1,
		Logger:    logger,
	}, registry)

	coordinator := execution.New(&execution.Config{
		Registry:   registry,
		Store:      store,
		HedgeDelay: 0,
		Logger:     logger,
	})

	return New(&Config{
		Scanner:     scanner,
		Coordinator: coordinator,
		Recovery:    execution.NewRecovery(registry, store, logger),
		Interval:    time.Hour, // only the immediate first cycle runs
		Logger:      logger,
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestEngineReplaysHedgesBeforeScanning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	venueX := testutil.NewScriptedVenue("venueX")
	venueX.SetQuote(testPair, types.Quote{Bid: 110, Ask: 111})
	venueY := testutil.NewScriptedVenue("venueY")
	venueY.SetQuote(testPair, types.Quote{Bid: 100, Ask: 101})
	store := storage.NewMemoryStore(zap.NewNop())

	err := store.Insert(ctx, testutil.PendingHedge("h1", "venueY", 0))
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	engine := newTestEngine(t, store, venueX, venueY)
	err = engine.Start(ctx)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Start returns only after recovery, so the replay already happened even
	// though the first scan cycle may still be running.
	calls := venueY.SwapCalls()
	if len(calls) == 0 {
		t.Fatal("pending hedge must be replayed before Start returns")
	}
	if calls[0].AmountOut != 0.1 {
		t.Errorf("replayed hedge must keep its exact-out amount, got %+v", calls[0])
	}

	cancel()
	_ = engine.Close()

	o := orderByID(t, store, "h1")
	if o == nil || !o.Status.Terminal() {
		t.Errorf("expected h1 resolved, got %+v", o)
	}
}

func TestEngineRecoveryFailureIsFatal(t *testing.T) {
	venueX := testutil.NewScriptedVenue("venueX")
	venueY := testutil.NewScriptedVenue("venueY")
	store := testutil.NewFailingStore(storage.NewMemoryStore(zap.NewNop()))
	store.FailFind = true

	engine := newTestEngine(t, store, venueX, venueY)
	err := engine.Start(context.Background())
	if err == nil {
		t.Fatal("scanning must not begin when recovery fails")
	}
}

func TestEngineExecutesOneOpportunityPerCycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Both directions of both duels never fire at once, but three venues
	// with one rich outlier yield two candidates in a single cycle.
	venueX := testutil.NewScriptedVenue("venueX")
	venueX.SetQuote(testPair, types.Quote{Bid: 110, Ask: 111})
	venueY := testutil.NewScriptedVenue("venueY")
	venueY.SetQuote(testPair, types.Quote{Bid: 100, Ask: 101})
	venueZ := testutil.NewScriptedVenue("venueZ")
	venueZ.SetQuote(testPair, types.Quote{Bid: 102, Ask: 103})
	store := storage.NewMemoryStore(zap.NewNop())

	engine := newTestEngine(t, store, venueX, venueY, venueZ)
	err := engine.Start(ctx)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	waitFor(t, "first cycle", func() bool {
		return len(venueX.SwapCalls()) > 0
	})
	cancel()
	_ = engine.Close()

	// Exactly one arb was dispatched: the X/Y duel's 9-point spread beats
	// the X/Z duel's 7.
	if calls := venueX.SwapCalls(); len(calls) != 1 {
		t.Fatalf("expected exactly 1 arb swap, got %d", len(calls))
	}
	if calls := venueZ.SwapCalls(); len(calls) != 0 {
		t.Errorf("the lesser opportunity must not execute, got %d swaps", len(calls))
	}

	orders, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	arbs := 0
	for _, o := range orders {
		if o.Action == types.ActionArb {
			arbs++
			if o.Venue != "venueX" {
				t.Errorf("arb must land on the richest venue, got %s", o.Venue)
			}
		}
	}
	if arbs != 1 {
		t.Errorf("expected exactly 1 arb order, got %d", arbs)
	}
}

func TestEngineSurfacesFatalCycleError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	venueX := testutil.NewScriptedVenue("venueX")
	venueX.SetQuote(testPair, types.Quote{Bid: 110, Ask: 111})
	venueY := testutil.NewScriptedVenue("venueY")
	venueY.SetQuote(testPair, types.Quote{Bid: 100, Ask: 101})
	store := testutil.NewFailingStore(storage.NewMemoryStore(zap.NewNop()))
	store.FailInsert = true

	engine := newTestEngine(t, store, venueX, venueY)
	err := engine.Start(ctx)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	select {
	case err = <-engine.Err():
		if err == nil {
			t.Fatal("expected a non-nil fatal error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected the persistence failure to surface on Err()")
	}

	_ = engine.Close()
}

func orderByID(t *testing.T, store storage.Store, id string) *types.Order {
	t.Helper()
	orders, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	for _, o := range orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}
