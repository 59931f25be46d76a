package venue

import (
	"context"

	"github.com/duelbot/dexduels/pkg/types"
)

// Venue is the uniform capability the duel engine consumes per trading
// venue. Routing and pricing stay fully encapsulated behind it.
type Venue interface {
	// Name identifies the venue; persisted on orders and used to resolve
	// the venue again during recovery.
	Name() string

	// GetQuotes returns the best achievable two-sided price for trading
	// amount of the pair's base against its quote, using the venue's own
	// routing. Missing liquidity is an error the scanner treats as "no
	// quote this cycle"; it never aborts the scan.
	GetQuotes(ctx context.Context, pair types.Pair, amount float64) (types.Quote, error)

	// Swap attempts one exact-in or exact-out trade. This boundary is the
	// sole place where chain and network failures become a boolean: every
	// failure surfaces as Filled=false, never as a panic or error.
	Swap(ctx context.Context, req types.SwapRequest) types.SwapResult
}
