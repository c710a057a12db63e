package engine

import "fmt"

// FatalError reports an internal invariant violation: state that the
// protocol guarantees should never occur, such as a resting order with a
// non-positive quantity at the head of the book. The symbol's worker stops
// processing further submissions once one of these is raised; see §7 of
// SPEC_FULL.md.
type FatalError struct {
	Symbol string
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("engine: fatal invariant violation on symbol %s: %s", e.Symbol, e.Reason)
}

func newFatalError(symbol, reason string) *FatalError {
	return &FatalError{Symbol: symbol, Reason: reason}
}
