package types

import (
	"fmt"
	"time"
)

// Action distinguishes the two legs of an arbitrage sequence.
type Action string

const (
	// ActionArb is the leg that captures the mispricing on the better-priced venue.
	ActionArb Action = "Arb"
	// ActionHedge is the offsetting leg on the other venue.
	ActionHedge Action = "Hedge"
)

// ParseAction converts a stored string back into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionArb:
		return ActionArb, nil
	case ActionHedge:
		return ActionHedge, nil
	default:
		return "", fmt.Errorf("unknown order action %q", s)
	}
}

// Status is the lifecycle state of a persisted order. The engine only ever
// writes New, Filled and Cancelled; PartiallyFilled is reachable through
// external tooling only.
type Status string

const (
	StatusNew             Status = "New"
	StatusCancelled       Status = "Cancelled"
	StatusPartiallyFilled Status = "PartiallyFilled"
	StatusFilled          Status = "Filled"
)

// ParseStatus converts a stored string back into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew:
		return StatusNew, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusPartiallyFilled:
		return StatusPartiallyFilled, nil
	case StatusFilled:
		return StatusFilled, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Terminal reports whether the status is final for this engine.
func (s Status) Terminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

// Order is the durable record of one attempted leg. It is inserted with
// status New immediately before the swap is dispatched and updated exactly
// once to its terminal status afterwards. Orders are never deleted.
type Order struct {
	ID        string    `json:"id"`
	HedgeTo   string    `json:"hedgeTo,omitempty"` // id of the paired Arb order; set on Hedge legs only
	Venue     string    `json:"venue"`
	SymIn     string    `json:"symIn"`
	SymOut    string    `json:"symOut"`
	AmountIn  float64   `json:"amountIn,omitempty"`  // exact-in intent; zero when AmountOut is set
	AmountOut float64   `json:"amountOut,omitempty"` // exact-out intent; zero when AmountIn is set
	Action    Action    `json:"action"`
	Status    Status    `json:"status"`
	Tx        string    `json:"tx,omitempty"` // swap attempt result reference, empty while New
	Timestamp time.Time `json:"ts"`
}

// ExactIn reports whether the order carries exact-in intent.
func (o *Order) ExactIn() bool {
	return o.AmountIn != 0
}

// Amount returns whichever of AmountIn/AmountOut is set.
func (o *Order) Amount() float64 {
	if o.ExactIn() {
		return o.AmountIn
	}
	return o.AmountOut
}

// Validate enforces the order invariants before persistence: a fresh id,
// exactly one of AmountIn/AmountOut, and HedgeTo set on hedge legs only.
func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order has no id")
	}
	if (o.AmountIn != 0) == (o.AmountOut != 0) {
		return fmt.Errorf("order %s must set exactly one of amountIn/amountOut", o.ID)
	}
	switch o.Action {
	case ActionArb:
		if o.HedgeTo != "" {
			return fmt.Errorf("arb order %s must not reference a hedge target", o.ID)
		}
	case ActionHedge:
		if o.HedgeTo == "" {
			return fmt.Errorf("hedge order %s must reference its arb order", o.ID)
		}
	default:
		return fmt.Errorf("order %s has unknown action %q", o.ID, o.Action)
	}
	return nil
}
