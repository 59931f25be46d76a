package venue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duelbot/dexduels/pkg/types"
)

// Paper is a simulated venue for paper trading: deterministic prices from
// a configured USD price table, a fixed half-spread, and swaps that always
// fill. A per-venue skew lets two paper venues disagree enough to produce
// opportunities end to end.
type Paper struct {
	name   string
	prices map[string]float64 // symbol -> USD price
	spread float64            // half-spread as a fraction, e.g. 0.002
	skew   float64            // fractional price shift applied to every quote
	logger *zap.Logger
}

// PaperConfig holds paper venue configuration.
type PaperConfig struct {
	Name      string
	Prices    map[string]float64
	SpreadBPS float64 // half-spread in basis points
	SkewBPS   float64 // venue-wide price skew in basis points
	Logger    *zap.Logger
}

// NewPaper creates a simulated venue.
func NewPaper(cfg *PaperConfig) *Paper {
	return &Paper{
		name:   cfg.Name,
		prices: cfg.Prices,
		spread: cfg.SpreadBPS / 10000,
		skew:   cfg.SkewBPS / 10000,
		logger: cfg.Logger,
	}
}

// Name identifies the venue.
func (p *Paper) Name() string {
	return p.name
}

// GetQuotes prices the pair off the configured USD table.
func (p *Paper) GetQuotes(ctx context.Context, pair types.Pair, amount float64) (types.Quote, error) {
	mid, err := p.mid(pair)
	if err != nil {
		return types.Quote{}, &types.QuoteError{Venue: p.name, Pair: pair, Err: err}
	}

	return types.Quote{
		Bid: mid * (1 - p.spread) * amount,
		Ask: mid * (1 + p.spread) * amount,
	}, nil
}

// Swap always fills with a synthetic transaction reference.
func (p *Paper) Swap(ctx context.Context, req types.SwapRequest) types.SwapResult {
	txRef := "paper-" + uuid.New().String()

	p.logger.Info("paper-swap-filled",
		zap.String("venue", p.name),
		zap.String("sym-in", req.SymIn),
		zap.String("sym-out", req.SymOut),
		zap.Float64("amount-in", req.AmountIn),
		zap.Float64("amount-out", req.AmountOut),
		zap.String("tx", txRef))

	return types.SwapResult{Filled: true, TxHash: txRef}
}

func (p *Paper) mid(pair types.Pair) (float64, error) {
	base, ok := p.prices[pair.Base]
	if !ok {
		return 0, fmt.Errorf("no paper price for %s", pair.Base)
	}
	quote, ok := p.prices[pair.Quote]
	if !ok {
		return 0, fmt.Errorf("no paper price for %s", pair.Quote)
	}
	if quote == 0 {
		return 0, fmt.Errorf("paper price for %s is zero", pair.Quote)
	}
	return base / quote * (1 + p.skew), nil
}
