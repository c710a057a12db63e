// Package engine implements the limit-order matching core: per-symbol
// order books, the matching loop, trade recording, and publish throttling.
package engine

import "time"

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType distinguishes limit orders from the currently-unimplemented
// market order type.
type OrderType int

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Market {
		return "market"
	}
	return "limit"
}

// ErrorKind enumerates the validation and fatal error taxonomy a Submit
// call can return in its Outcome.
type ErrorKind string

const (
	ErrInvalidOrderType ErrorKind = "invalid_order_type"
	ErrInvalidSide      ErrorKind = "invalid_side"
	ErrInvalidPrice     ErrorKind = "invalid_price"
	ErrInvalidQuantity  ErrorKind = "invalid_quantity"
	ErrNotImplemented   ErrorKind = "not_implemented"
	ErrFatal            ErrorKind = "fatal"
	ErrCanceled         ErrorKind = "canceled"
)

// Status is the outcome classification of a Submit call.
type Status string

const (
	StatusError   Status = "error"
	StatusOpen    Status = "open"
	StatusPartial Status = "partial"
	StatusFilled  Status = "filled"
)

// Order is a resting or in-flight order record. Qty holds the remaining
// quantity; it is decremented in place as fills occur.
type Order struct {
	OrderID   string
	Symbol    string
	UserID    int64
	Side      Side
	Price     int64
	Qty       int64
	Timestamp int64 // ms
	sideSeq   int64 // tie-break sequence within (timestamp, side)
}

// Trade is an immutable record of one match between a resting maker order
// and an incoming taker order.
type Trade struct {
	TradeID      string
	Symbol       string
	MakerOrderID string
	MakerUserID  int64
	TakerOrderID string
	TakerUserID  int64
	Price        int64
	Qty          int64
	Timestamp    int64 // ms
}

// Outcome is the result of a Submit call.
type Outcome struct {
	Status       Status
	Error        ErrorKind
	OrderID      string
	RemainingQty int64
	TradeIDs     []string
}

// PriceLevel is one aggregated row of a book snapshot.
type PriceLevel struct {
	Price int64
	Qty   int64
}

// BookSnapshot is the top-of-book view returned by Snapshot and emitted to
// subscribers of the order-book publish channel.
type BookSnapshot struct {
	Symbol    string
	Bids      []PriceLevel
	Asks      []PriceLevel
	Timestamp int64
}

// nowMillis converts a time.Time to the integer-millisecond wall clock the
// protocol is specified in terms of.
func nowMillis(t time.Time) int64 {
	return t.UnixMilli()
}
