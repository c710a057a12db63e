package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config controls one symbol's engine instance.
type Config struct {
	Symbol          string
	PublishThrottle time.Duration // 0 forces publish-on-every-change
	RequestBuffer   int
	Clock           func() time.Time
	Publisher       Publisher
	Logger          *zap.Logger
	Metrics         *Metrics
}

func (c Config) withDefaults() Config {
	// PublishThrottle is never defaulted here: 0 is a meaningful value
	// ("publish on every change"), not an unset marker. Callers that want
	// the default throttle must supply it explicitly (internal/config.Load
	// does this for cmd/server).
	if c.RequestBuffer == 0 {
		c.RequestBuffer = 256
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

type submitRequest struct {
	orderType OrderType
	userID    int64
	side      Side
	price     int64
	qty       int64
	resp      chan Outcome
}

type snapshotRequest struct {
	depth int
	resp  chan BookSnapshot
}

// symbolEngine is the single actor that owns one symbol's entire state:
// its order book, sequence counters, trade ledger, and publish throttle.
// Every field below is touched only from run(), which is the one goroutine
// that gives Submit its atomicity (SPEC_FULL.md §4.4, §5).
type symbolEngine struct {
	cfg           Config
	book          *orderBook
	seq           sequencer
	rec           *recorder
	lastPublishMs int64
	halted        bool
	haltErr       *FatalError

	submitCh   chan submitRequest
	snapshotCh chan snapshotRequest
	stopCh     chan struct{}
}

func newSymbolEngine(cfg Config) *symbolEngine {
	cfg = cfg.withDefaults()
	return &symbolEngine{
		cfg:        cfg,
		book:       newOrderBook(cfg.Symbol),
		rec:        newRecorder(cfg.Symbol, cfg.Publisher),
		submitCh:   make(chan submitRequest, cfg.RequestBuffer),
		snapshotCh: make(chan snapshotRequest, 16),
		stopCh:     make(chan struct{}),
	}
}

func (se *symbolEngine) run() {
	for {
		select {
		case req := <-se.submitCh:
			req.resp <- se.handleSubmit(req)
		case req := <-se.snapshotCh:
			req.resp <- se.book.snapshot(nowMillis(se.cfg.Clock()))
			_ = req.depth // depth is reserved for future per-request limits; default is always the full §4.5 aggregation
		case <-se.stopCh:
			return
		}
	}
}

func (se *symbolEngine) handleSubmit(req submitRequest) Outcome {
	if se.halted {
		return Outcome{Status: StatusError, Error: ErrFatal}
	}

	start := se.cfg.Clock()

	outcome := validate(req)
	if outcome.Error != "" {
		se.cfg.Metrics.observeSubmit(se.cfg.Symbol, StatusError, 0)
		return outcome
	}

	outcome, fatal := se.safeProcessSubmit(req, start)
	if fatal != nil {
		se.halted = true
		se.haltErr = fatal
		se.cfg.Logger.DPanic("engine halted on fatal invariant violation",
			zap.String("symbol", se.cfg.Symbol), zap.Error(fatal))
		return Outcome{Status: StatusError, Error: ErrFatal}
	}

	elapsed := se.cfg.Clock().Sub(start).Seconds()
	se.cfg.Metrics.observeSubmit(se.cfg.Symbol, outcome.Status, elapsed)
	se.cfg.Metrics.observeLevels(se.cfg.Symbol, se.book.bids.levelCount(), se.book.asks.levelCount())
	return outcome
}

// safeProcessSubmit recovers a panic raised inside processSubmit (such as
// the non-positive maker quantity check) into a FatalError so one
// corrupted symbol can't crash the process; the worker
// simply stops accepting further submissions for it (§7).
func (se *symbolEngine) safeProcessSubmit(req submitRequest, start time.Time) (outcome Outcome, fatal *FatalError) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*FatalError); ok {
				fatal = fe
				return
			}
			fatal = newFatalError(se.cfg.Symbol, fmt.Sprintf("%v", r))
		}
	}()
	outcome = se.processSubmit(req, start)
	return outcome, nil
}

// validate implements the input constraints of SPEC_FULL.md §4.4 step 1.
// On failure it returns an error Outcome; the caller's state is never
// touched.
func validate(req submitRequest) Outcome {
	switch req.orderType {
	case Limit:
	case Market:
		return Outcome{Status: StatusError, Error: ErrNotImplemented}
	default:
		return Outcome{Status: StatusError, Error: ErrInvalidOrderType}
	}
	if req.side != Buy && req.side != Sell {
		return Outcome{Status: StatusError, Error: ErrInvalidSide}
	}
	if req.price <= 0 {
		return Outcome{Status: StatusError, Error: ErrInvalidPrice}
	}
	if req.qty <= 0 {
		return Outcome{Status: StatusError, Error: ErrInvalidQuantity}
	}
	return Outcome{}
}

// processSubmit runs the authoritative match loop of SPEC_FULL.md §4.4
// steps 2-9. It is the entire atomic state transition for one order.
func (se *symbolEngine) processSubmit(req submitRequest, now time.Time) Outcome {
	timestampMs := nowMillis(now)

	orderSeq := se.seq.nextOrderSeq()
	sideSeq := se.seq.nextSideSeq(req.side)
	orderID := formatOrderID(timestampMs, orderSeq)

	incoming := &Order{
		OrderID:   orderID,
		Symbol:    se.cfg.Symbol,
		UserID:    req.userID,
		Side:      req.side,
		Price:     req.price,
		Qty:       req.qty,
		Timestamp: timestampMs,
		sideSeq:   sideSeq,
	}

	opposite := Sell
	if req.side == Sell {
		opposite = Buy
	}

	var tradeIDs []string
	remaining := incoming.Qty

	for remaining > 0 {
		maker := se.book.peekBest(opposite)
		if maker == nil {
			break
		}
		if req.side == Buy && maker.Price > req.price {
			break
		}
		if req.side == Sell && maker.Price < req.price {
			break
		}

		makerQty := maker.Qty
		if makerQty <= 0 {
			panic(newFatalError(se.cfg.Symbol, "resting order with non-positive quantity at head of book"))
		}
		tradeQty := remaining
		if makerQty < tradeQty {
			tradeQty = makerQty
		}

		tradeID := se.rec.recordTrade(&se.seq, timestampMs, maker, orderID, req.userID, maker.Price, tradeQty)
		tradeIDs = append(tradeIDs, tradeID)

		if makerQty > remaining {
			se.book.decrementQty(maker, tradeQty)
			remaining = 0
		} else {
			se.book.popBest(opposite, maker)
			remaining -= tradeQty
		}
	}

	incoming.Qty = remaining
	if remaining > 0 {
		se.book.insert(incoming)
	}

	outcome := classify(orderID, req.qty, remaining, tradeIDs)
	se.cfg.Metrics.observeTrades(se.cfg.Symbol, len(tradeIDs))

	if timestampMs-se.lastPublishMs >= se.cfg.PublishThrottle.Milliseconds() {
		se.publishSnapshot(timestampMs)
		se.lastPublishMs = timestampMs
	}

	return outcome
}

func classify(orderID string, originalQty, remaining int64, tradeIDs []string) Outcome {
	switch {
	case len(tradeIDs) == 0 && remaining == originalQty:
		return Outcome{Status: StatusOpen, OrderID: orderID}
	case remaining == 0:
		return Outcome{Status: StatusFilled, OrderID: orderID, TradeIDs: tradeIDs}
	default:
		return Outcome{Status: StatusPartial, OrderID: orderID, RemainingQty: remaining, TradeIDs: tradeIDs}
	}
}

// publishSnapshot is best-effort: a downstream publish failure never rolls
// back the match that already committed (§7).
func (se *symbolEngine) publishSnapshot(timestampMs int64) {
	if se.cfg.Publisher == nil {
		return
	}
	snap := se.book.snapshot(timestampMs)
	se.cfg.Publisher.PublishOrderBook(se.cfg.Symbol, snap)
}

func (se *symbolEngine) stop() {
	close(se.stopCh)
}
