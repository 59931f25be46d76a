package duel

import (
	"testing"

	"github.com/duelbot/dexduels/pkg/types"
)

func TestNewOpportunityLegs(t *testing.T) {
	pair := types.Pair{Base: "BCH", Quote: "flexUSD"}
	o := NewOpportunity(pair, "benswap", "mistswap", 0.25, 3.5)

	arb := o.Arb.Order()
	hedge := o.Hedge.Order()

	if err := arb.Validate(); err != nil {
		t.Errorf("arb order invalid: %v", err)
	}
	if err := hedge.Validate(); err != nil {
		t.Errorf("hedge order invalid: %v", err)
	}

	if arb.ID == hedge.ID {
		t.Error("legs must get distinct ids")
	}
	if hedge.HedgeTo != arb.ID {
		t.Errorf("hedge must reference arb id %s, got %s", arb.ID, hedge.HedgeTo)
	}

	if arb.SymIn != "BCH" || arb.SymOut != "flexUSD" || arb.AmountIn != 0.25 {
		t.Errorf("arb leg wrong: %+v", arb)
	}
	if hedge.SymIn != "flexUSD" || hedge.SymOut != "BCH" || hedge.AmountOut != 0.25 {
		t.Errorf("hedge leg wrong: %+v", hedge)
	}

	if arb.Status != types.StatusNew || hedge.Status != types.StatusNew {
		t.Error("fresh orders must start as New")
	}
}
