package duel

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duelbot/dexduels/pkg/types"
)

// Leg is one single-venue trade within the two-trade arbitrage+hedge
// sequence, drafted at scan time. It becomes a persisted order only when
// the coordinator is about to attempt it.
type Leg struct {
	OrderID   string
	HedgeTo   string // arb order id; set on the hedge leg only
	Venue     string
	SymIn     string
	SymOut    string
	AmountIn  float64
	AmountOut float64
	Action    types.Action
}

// Order converts the leg into a fresh persisted order with status New.
func (l Leg) Order() *types.Order {
	return &types.Order{
		ID:        l.OrderID,
		HedgeTo:   l.HedgeTo,
		Venue:     l.Venue,
		SymIn:     l.SymIn,
		SymOut:    l.SymOut,
		AmountIn:  l.AmountIn,
		AmountOut: l.AmountOut,
		Action:    l.Action,
		Status:    types.StatusNew,
		Timestamp: time.Now(),
	}
}

// Opportunity is one detected mispricing: an arb leg on the better-priced
// venue offset by a hedge leg on the other. It exists only within the scan
// cycle that found it.
type Opportunity struct {
	Pair            types.Pair
	EstimatedProfit float64 // numeraire units
	Arb             Leg
	Hedge           Leg
	DetectedAt      time.Time
}

// NewOpportunity builds an opportunity: an exact-in base->quote arb leg of
// qty base on arbVenue, offset by an exact-out quote->base hedge leg on
// hedgeVenue. Both legs get freshly generated ids.
func NewOpportunity(pair types.Pair, arbVenue, hedgeVenue string, qty, profit float64) *Opportunity {
	arbID := uuid.New().String()
	hedgeID := uuid.New().String()

	return &Opportunity{
		Pair:            pair,
		EstimatedProfit: profit,
		DetectedAt:      time.Now(),
		Arb: Leg{
			OrderID:  arbID,
			Venue:    arbVenue,
			SymIn:    pair.Base,
			SymOut:   pair.Quote,
			AmountIn: qty,
			Action:   types.ActionArb,
		},
		Hedge: Leg{
			OrderID:   hedgeID,
			HedgeTo:   arbID,
			Venue:     hedgeVenue,
			SymIn:     pair.Quote,
			SymOut:    pair.Base,
			AmountOut: qty,
			Action:    types.ActionHedge,
		},
	}
}

// String returns a compact human-readable rendering.
func (o *Opportunity) String() string {
	return fmt.Sprintf("Opportunity[%s] %s arb=%s hedge=%s profit=%.4f",
		o.Arb.OrderID[:8], o.Pair, o.Arb.Venue, o.Hedge.Venue, o.EstimatedProfit)
}
