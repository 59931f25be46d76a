package duel

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/internal/testutil"
	"github.com/duelbot/dexduels/internal/venue"
	"github.com/duelbot/dexduels/pkg/types"
)

func newTestRegistry(t *testing.T, venues ...venue.Venue) *venue.Registry {
	t.Helper()
	registry, err := venue.NewRegistry(venues...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return registry
}

func TestScanDetectsOpportunityAboveTrigger(t *testing.T) {
	pair := types.Pair{Base: "BCH", Quote: "flexUSD"}

	tests := []struct {
		name        string
		threshold   float64
		quoteX      types.Quote
		quoteY      types.Quote
		expectOpps  int
		expectArbOn string
	}{
		{
			// Selling on X yields 105, buying back on Y costs 100: 5 profit.
			name:        "spread-above-trigger",
			threshold:   2,
			quoteX:      types.Quote{Bid: 105, Ask: 106},
			quoteY:      types.Quote{Bid: 99, Ask: 100},
			expectOpps:  1,
			expectArbOn: "venueX",
		},
		{
			name:       "spread-below-trigger",
			threshold:  10,
			quoteX:     types.Quote{Bid: 105, Ask: 106},
			quoteY:     types.Quote{Bid: 99, Ask: 100},
			expectOpps: 0,
		},
		{
			// Profit exactly equal to the trigger must not fire.
			name:       "spread-exactly-at-trigger",
			threshold:  5,
			quoteX:     types.Quote{Bid: 105, Ask: 106},
			quoteY:     types.Quote{Bid: 99, Ask: 100},
			expectOpps: 0,
		},
		{
			name:        "reverse-direction",
			threshold:   2,
			quoteX:      types.Quote{Bid: 99, Ask: 100},
			quoteY:      types.Quote{Bid: 105, Ask: 106},
			expectOpps:  1,
			expectArbOn: "venueY",
		},
		{
			name:       "efficient-market",
			threshold:  1,
			quoteX:     types.Quote{Bid: 100, Ask: 101},
			quoteY:     types.Quote{Bid: 100, Ask: 101},
			expectOpps: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			venueX := testutil.NewScriptedVenue("venueX")
			venueX.SetQuote(pair, tt.quoteX)
			venueY := testutil.NewScriptedVenue("venueY")
			venueY.SetQuote(pair, tt.quoteY)

			scanner := NewScanner(Config{
				Pairs:     []types.Pair{pair},
				Numeraire: "flexUSD",
				BaseQty:   0.1,
				Threshold: tt.threshold,
				Logger:    zap.NewNop(),
			}, newTestRegistry(t, venueX, venueY))

			opps := scanner.Scan(context.Background())

			if len(opps) != tt.expectOpps {
				t.Fatalf("expected %d opportunities, got %d", tt.expectOpps, len(opps))
			}
			if tt.expectOpps == 0 {
				return
			}

			opp := opps[0]
			if opp.Arb.Venue != tt.expectArbOn {
				t.Errorf("expected arb on %s, got %s", tt.expectArbOn, opp.Arb.Venue)
			}
			if opp.Arb.Venue == opp.Hedge.Venue {
				t.Error("arb and hedge must be on different venues")
			}
			if !opp.Arb.Order().ExactIn() {
				t.Error("arb leg must carry exact-in intent")
			}
			if opp.Hedge.Order().ExactIn() {
				t.Error("hedge leg must carry exact-out intent")
			}
			if opp.Hedge.HedgeTo != opp.Arb.OrderID {
				t.Errorf("hedge must reference arb id %s, got %s", opp.Arb.OrderID, opp.Hedge.HedgeTo)
			}
		})
	}
}

func TestScanSkipsUnquotablePair(t *testing.T) {
	good := types.Pair{Base: "BCH", Quote: "flexUSD"}
	broken := types.Pair{Base: "EBEN", Quote: "flexUSD"}

	venueX := testutil.NewScriptedVenue("venueX")
	venueX.SetQuote(good, types.Quote{Bid: 110, Ask: 111})
	venueX.SetQuoteError(broken, fmt.Errorf("no liquidity"))
	venueY := testutil.NewScriptedVenue("venueY")
	venueY.SetQuote(good, types.Quote{Bid: 100, Ask: 101})
	venueY.SetQuote(broken, types.Quote{Bid: 100, Ask: 101})

	scanner := NewScanner(Config{
		Pairs:     []types.Pair{broken, good},
		Numeraire: "flexUSD",
		BaseQty:   0.1,
		Threshold: 1,
		Logger:    zap.NewNop(),
	}, newTestRegistry(t, venueX, venueY))

	opps := scanner.Scan(context.Background())

	// The broken pair is skipped, the good one still fires.
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	if opps[0].Pair != good {
		t.Errorf("expected opportunity on %s, got %s", good, opps[0].Pair)
	}
}

func TestScanConvertsProfitThroughNumeraire(t *testing.T) {
	pair := types.Pair{Base: "BCH", Quote: "EBEN"}
	refPair := types.Pair{Base: "EBEN", Quote: "flexUSD"}

	venueX := testutil.NewScriptedVenue("venueX")
	venueX.SetQuote(pair, types.Quote{Bid: 1050, Ask: 1060})
	venueX.SetQuote(refPair, types.Quote{Bid: 0.01, Ask: 0.011})
	venueY := testutil.NewScriptedVenue("venueY")
	venueY.SetQuote(pair, types.Quote{Bid: 990, Ask: 1000})

	// Raw spread is 50 EBEN; at 0.01 numeraire each that is 0.5.
	scanner := NewScanner(Config{
		Pairs:     []types.Pair{pair},
		Numeraire: "flexUSD",
		BaseQty:   0.1,
		Threshold: 0.4,
		Logger:    zap.NewNop(),
	}, newTestRegistry(t, venueX, venueY))

	opps := scanner.Scan(context.Background())
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	if got := opps[0].EstimatedProfit; got < 0.49 || got > 0.51 {
		t.Errorf("expected profit near 0.5 numeraire units, got %f", got)
	}

	// A trigger above the converted profit suppresses it.
	scanner = NewScanner(Config{
		Pairs:     []types.Pair{pair},
		Numeraire: "flexUSD",
		BaseQty:   0.1,
		Threshold: 0.6,
		Logger:    zap.NewNop(),
	}, newTestRegistry(t, venueX, venueY))

	opps = scanner.Scan(context.Background())
	if len(opps) != 0 {
		t.Fatalf("expected no opportunities above converted profit, got %d", len(opps))
	}
}

func TestScanSkipsWhenNumeraireUnquotable(t *testing.T) {
	pair := types.Pair{Base: "BCH", Quote: "EBEN"}

	venueX := testutil.NewScriptedVenue("venueX")
	venueX.SetQuote(pair, types.Quote{Bid: 1050, Ask: 1060})
	venueY := testutil.NewScriptedVenue("venueY")
	venueY.SetQuote(pair, types.Quote{Bid: 990, Ask: 1000})

	// No EBEN/flexUSD reference quote scripted anywhere.
	scanner := NewScanner(Config{
		Pairs:     []types.Pair{pair},
		Numeraire: "flexUSD",
		BaseQty:   0.1,
		Threshold: 0.1,
		Logger:    zap.NewNop(),
	}, newTestRegistry(t, venueX, venueY))

	opps := scanner.Scan(context.Background())
	if len(opps) != 0 {
		t.Fatalf("expected no opportunities without a reference price, got %d", len(opps))
	}
}

func TestScanThreeVenuesProbesEveryDuel(t *testing.T) {
	pair := types.Pair{Base: "BCH", Quote: "flexUSD"}

	venueX := testutil.NewScriptedVenue("venueX")
	venueX.SetQuote(pair, types.Quote{Bid: 110, Ask: 111})
	venueY := testutil.NewScriptedVenue("venueY")
	venueY.SetQuote(pair, types.Quote{Bid: 100, Ask: 101})
	venueZ := testutil.NewScriptedVenue("venueZ")
	venueZ.SetQuote(pair, types.Quote{Bid: 100, Ask: 101})

	scanner := NewScanner(Config{
		Pairs:     []types.Pair{pair},
		Numeraire: "flexUSD",
		BaseQty:   0.1,
		Threshold: 1,
		Logger:    zap.NewNop(),
	}, newTestRegistry(t, venueX, venueY, venueZ))

	opps := scanner.Scan(context.Background())

	// X beats both Y and Z; the Y/Z duel is flat.
	if len(opps) != 2 {
		t.Fatalf("expected 2 opportunities across 3 duels, got %d", len(opps))
	}
	for _, opp := range opps {
		if opp.Arb.Venue != "venueX" {
			t.Errorf("expected every arb on venueX, got %s", opp.Arb.Venue)
		}
	}
}
