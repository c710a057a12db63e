package engine

import (
	"container/list"

	"github.com/google/btree"
)

// priceLevel holds every resting order at one price, in strict FIFO
// arrival order.
type priceLevel struct {
	price int64
	queue *list.List // of *Order
}

func lessAscending(a, b *priceLevel) bool {
	return a.price < b.price
}

// book is one side (bids or asks) of a symbol's order book: a btree price
// index over per-price FIFO queues, per the design note's recommendation
// to avoid floating-point scoring (SPEC_FULL.md §4.2).
type book struct {
	isBid  bool
	levels *btree.BTreeG[*priceLevel]
	byPx   map[int64]*priceLevel
}

func newBookSide(isBid bool) *book {
	return &book{
		isBid:  isBid,
		levels: btree.NewG(32, lessAscending),
		byPx:   make(map[int64]*priceLevel),
	}
}

func (b *book) bestLevel() *priceLevel {
	var best *priceLevel
	if b.isBid {
		b.levels.Descend(func(lv *priceLevel) bool {
			best = lv
			return false
		})
	} else {
		b.levels.Ascend(func(lv *priceLevel) bool {
			best = lv
			return false
		})
	}
	return best
}

func (b *book) peekBest() *Order {
	lv := b.bestLevel()
	if lv == nil || lv.queue.Len() == 0 {
		return nil
	}
	return lv.queue.Front().Value.(*Order)
}

// popFront removes the given order (callers pass the head they just
// peeked) from its price level's FIFO queue, deleting the level entirely
// once it empties. It returns nothing.
func (b *book) popFront(order *Order) {
	lv, ok := b.byPx[order.Price]
	if !ok {
		return
	}
	for e := lv.queue.Front(); e != nil; e = e.Next() {
		if e.Value.(*Order).OrderID == order.OrderID {
			lv.queue.Remove(e)
			break
		}
	}
	if lv.queue.Len() == 0 {
		b.levels.Delete(lv)
		delete(b.byPx, order.Price)
	}
}

func (b *book) insert(order *Order) {
	lv, ok := b.byPx[order.Price]
	if !ok {
		lv = &priceLevel{price: order.Price, queue: list.New()}
		b.byPx[order.Price] = lv
		b.levels.ReplaceOrInsert(lv)
	}
	lv.queue.PushBack(order)
}

// snapshot returns up to depth aggregated price levels, best-first.
func (b *book) snapshot(depth int) []PriceLevel {
	if depth <= 0 {
		return nil
	}
	out := make([]PriceLevel, 0, depth)
	visit := func(lv *priceLevel) bool {
		var qty int64
		for e := lv.queue.Front(); e != nil; e = e.Next() {
			qty += e.Value.(*Order).Qty
		}
		out = append(out, PriceLevel{Price: lv.price, Qty: qty})
		return len(out) < depth
	}
	if b.isBid {
		b.levels.Descend(visit)
	} else {
		b.levels.Ascend(visit)
	}
	return out
}

func (b *book) levelCount() int {
	return b.levels.Len()
}

// orderBook is the complete per-symbol state the matching engine owns:
// both sides plus the order-id index, consulted and mutated only from the
// symbol's single worker goroutine.
type orderBook struct {
	symbol string
	bids   *book
	asks   *book
	orders map[string]*Order
}

func newOrderBook(symbol string) *orderBook {
	return &orderBook{
		symbol: symbol,
		bids:   newBookSide(true),
		asks:   newBookSide(false),
		orders: make(map[string]*Order),
	}
}

func (ob *orderBook) side(s Side) *book {
	if s == Buy {
		return ob.bids
	}
	return ob.asks
}

// peekBest returns the head order of the given side without removing it.
func (ob *orderBook) peekBest(s Side) *Order {
	return ob.side(s).peekBest()
}

// popBest removes the head order of the given side from both the price
// index and the order map. The caller must have already peeked it.
func (ob *orderBook) popBest(s Side, order *Order) {
	ob.side(s).popFront(order)
	delete(ob.orders, order.OrderID)
}

// decrementQty reduces a resting order's remaining quantity in place.
// The caller guarantees delta is strictly less than the current quantity.
func (ob *orderBook) decrementQty(order *Order, delta int64) {
	order.Qty -= delta
}

// insert rests a brand-new order on its own side.
func (ob *orderBook) insert(order *Order) {
	ob.side(order.Side).insert(order)
	ob.orders[order.OrderID] = order
}

// lookup returns the full record for an order-id, and whether it exists.
func (ob *orderBook) lookup(orderID string) (*Order, bool) {
	o, ok := ob.orders[orderID]
	return o, ok
}

// snapshot renders the current BookSnapshot for publishing, aggregating up
// to 100 levels per side per SPEC_FULL.md §4.5.
func (ob *orderBook) snapshot(timestampMs int64) BookSnapshot {
	const maxLevels = 100
	return BookSnapshot{
		Symbol:    ob.symbol,
		Bids:      ob.bids.snapshot(maxLevels),
		Asks:      ob.asks.snapshot(maxLevels),
		Timestamp: timestampMs,
	}
}

// bestBidAsk returns (bestBidPrice, bestAskPrice, ok) for invariant checks;
// ok is false if either side is empty.
func (ob *orderBook) bestBidAsk() (int64, int64, bool) {
	bid := ob.bids.peekBest()
	ask := ob.asks.peekBest()
	if bid == nil || ask == nil {
		return 0, 0, false
	}
	return bid.Price, ask.Price, true
}
