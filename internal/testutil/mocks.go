package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/duelbot/dexduels/pkg/types"
)

// ScriptedVenue is a Venue implementation driven entirely by preloaded
// quotes and swap outcomes. Tests script it, run the code under test, then
// inspect what it was asked to do.
type ScriptedVenue struct {
	mu sync.Mutex

	name     string
	quotes   map[string]types.Quote
	quoteErr map[string]error

	swapResults []types.SwapResult
	swapCalls   []types.SwapRequest
	swapCounter int
}

// NewScriptedVenue creates a scripted venue with no quotes loaded.
func NewScriptedVenue(name string) *ScriptedVenue {
	return &ScriptedVenue{
		name:     name,
		quotes:   make(map[string]types.Quote),
		quoteErr: make(map[string]error),
	}
}

// Name returns the venue name.
func (v *ScriptedVenue) Name() string {
	return v.name
}

// SetQuote scripts the quote returned for a pair, regardless of amount.
func (v *ScriptedVenue) SetQuote(pair types.Pair, quote types.Quote) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.quotes[pair.String()] = quote
	delete(v.quoteErr, pair.String())
}

// SetQuoteError scripts a quote failure for a pair.
func (v *ScriptedVenue) SetQuoteError(pair types.Pair, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.quoteErr[pair.String()] = err
}

// GetQuotes returns the scripted quote for the pair, or a QuoteError when
// nothing was scripted.
func (v *ScriptedVenue) GetQuotes(_ context.Context, pair types.Pair, _ float64) (types.Quote, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err, ok := v.quoteErr[pair.String()]; ok {
		return types.Quote{}, &types.QuoteError{Venue: v.name, Pair: pair, Err: err}
	}

	quote, ok := v.quotes[pair.String()]
	if !ok {
		return types.Quote{}, &types.QuoteError{
			Venue: v.name,
			Pair:  pair,
			Err:   fmt.Errorf("no quote scripted"),
		}
	}
	return quote, nil
}

// ScriptSwap appends one swap outcome; consecutive Swap calls consume them
// in order.
func (v *ScriptedVenue) ScriptSwap(result types.SwapResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.swapResults = append(v.swapResults, result)
}

// Swap records the request and returns the next scripted outcome. With no
// outcomes left it fills, so tests that only care about quotes need no swap
// scripting.
func (v *ScriptedVenue) Swap(_ context.Context, req types.SwapRequest) types.SwapResult {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.swapCalls = append(v.swapCalls, req)

	if v.swapCounter >= len(v.swapResults) {
		return types.SwapResult{
			Filled: true,
			TxHash: fmt.Sprintf("scripted-tx-%d", len(v.swapCalls)),
		}
	}

	result := v.swapResults[v.swapCounter]
	v.swapCounter++
	return result
}

// SwapCalls returns every swap request seen so far, oldest first.
func (v *ScriptedVenue) SwapCalls() []types.SwapRequest {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]types.SwapRequest, len(v.swapCalls))
	copy(out, v.swapCalls)
	return out
}
