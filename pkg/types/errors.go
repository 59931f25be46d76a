package types

import "fmt"

// QuoteError reports that a venue could not price a pair during a scan
// cycle. It is scoped to one (venue, pair) probe: the scanner logs it,
// skips the combination and carries on.
type QuoteError struct {
	Venue string
	Pair  Pair
	Err   error
}

func (e *QuoteError) Error() string {
	return fmt.Sprintf("%s could not quote %s: %v", e.Venue, e.Pair, e.Err)
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// StoreError wraps a persistence failure. An order whose outcome cannot be
// durably recorded is a correctness hazard, so these propagate and are
// allowed to terminate the process.
type StoreError struct {
	Op  string // "insert", "update", "find"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("order store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
