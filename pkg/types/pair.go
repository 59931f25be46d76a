package types

// Pair is a configured trading pair. Base is the asset being arbitraged,
// Quote is the asset it trades against. Pairs are immutable once configured.
type Pair struct {
	Base  string
	Quote string
}

// String returns the conventional BASE/QUOTE rendering.
func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// Reversed returns the pair with base and quote swapped.
func (p Pair) Reversed() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}
