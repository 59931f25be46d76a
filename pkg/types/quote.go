package types

// Quote is an ephemeral two-sided price for trading a specific amount of a
// pair's base on one venue. Bid is the total quote-asset proceeds from
// selling the probed amount of base; Ask is the total quote-asset cost of
// buying it back. Quotes are never persisted.
type Quote struct {
	Bid float64
	Ask float64
}

// SwapRequest describes one exact-in or exact-out trade. Exactly one of
// AmountIn/AmountOut is set, mirroring the order it was built from.
type SwapRequest struct {
	SymIn     string
	SymOut    string
	AmountIn  float64
	AmountOut float64
}

// ExactIn reports whether the request carries exact-in intent.
func (r SwapRequest) ExactIn() bool {
	return r.AmountIn != 0
}

// SwapResult is the outcome of one swap attempt. Venue adapters translate
// every transaction or network failure into Filled=false; a swap never
// surfaces as an error past the venue boundary.
type SwapResult struct {
	Filled bool
	TxHash string
	Detail string // failure reason when not filled
}

// Ref returns the value recorded on the order: the transaction hash when
// one exists, otherwise the failure detail.
func (r SwapResult) Ref() string {
	if r.TxHash != "" {
		return r.TxHash
	}
	return r.Detail
}
