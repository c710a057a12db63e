package engine

import "testing"

func TestBookBestLevelOrdering(t *testing.T) {
	bids := newBookSide(true)
	bids.insert(&Order{OrderID: "b1", Price: 100, Qty: 1})
	bids.insert(&Order{OrderID: "b2", Price: 105, Qty: 1})
	bids.insert(&Order{OrderID: "b3", Price: 99, Qty: 1})

	best := bids.peekBest()
	if best == nil || best.Price != 105 {
		t.Fatalf("expected best bid 105, got %+v", best)
	}

	asks := newBookSide(false)
	asks.insert(&Order{OrderID: "a1", Price: 110, Qty: 1})
	asks.insert(&Order{OrderID: "a2", Price: 108, Qty: 1})
	asks.insert(&Order{OrderID: "a3", Price: 112, Qty: 1})

	bestAsk := asks.peekBest()
	if bestAsk == nil || bestAsk.Price != 108 {
		t.Fatalf("expected best ask 108, got %+v", bestAsk)
	}
}

func TestBookFIFOWithinPriceLevel(t *testing.T) {
	bids := newBookSide(true)
	bids.insert(&Order{OrderID: "first", Price: 100, Qty: 1})
	bids.insert(&Order{OrderID: "second", Price: 100, Qty: 1})
	bids.insert(&Order{OrderID: "third", Price: 100, Qty: 1})

	got := bids.peekBest()
	if got.OrderID != "first" {
		t.Fatalf("expected FIFO head 'first', got %q", got.OrderID)
	}
	bids.popFront(got)

	got = bids.peekBest()
	if got.OrderID != "second" {
		t.Fatalf("expected FIFO head 'second' after pop, got %q", got.OrderID)
	}
}

func TestBookLevelRemovedWhenEmptied(t *testing.T) {
	bids := newBookSide(true)
	order := &Order{OrderID: "only", Price: 100, Qty: 1}
	bids.insert(order)

	if bids.levelCount() != 1 {
		t.Fatalf("expected 1 level, got %d", bids.levelCount())
	}

	bids.popFront(order)

	if bids.levelCount() != 0 {
		t.Fatalf("expected level to be deleted once its queue empties, got %d levels", bids.levelCount())
	}
	if bids.peekBest() != nil {
		t.Fatalf("expected empty book side after removing its only order")
	}
}

func TestBookSnapshotAggregatesQtyPerLevel(t *testing.T) {
	bids := newBookSide(true)
	bids.insert(&Order{OrderID: "b1", Price: 100, Qty: 3})
	bids.insert(&Order{OrderID: "b2", Price: 100, Qty: 4})
	bids.insert(&Order{OrderID: "b3", Price: 99, Qty: 1})

	levels := bids.snapshot(10)
	if len(levels) != 2 {
		t.Fatalf("expected 2 aggregated levels, got %d", len(levels))
	}
	if levels[0].Price != 100 || levels[0].Qty != 7 {
		t.Fatalf("expected best level 100 qty 7, got %+v", levels[0])
	}
	if levels[1].Price != 99 || levels[1].Qty != 1 {
		t.Fatalf("expected second level 99 qty 1, got %+v", levels[1])
	}
}

func TestBookSnapshotRespectsDepthCap(t *testing.T) {
	asks := newBookSide(false)
	for p := int64(100); p < 120; p++ {
		asks.insert(&Order{OrderID: "x", Price: p, Qty: 1})
	}
	levels := asks.snapshot(5)
	if len(levels) != 5 {
		t.Fatalf("expected depth cap of 5, got %d", len(levels))
	}
	if levels[0].Price != 100 {
		t.Fatalf("expected ascending ask levels starting at 100, got %+v", levels[0])
	}
}

func TestOrderBookBestBidAsk(t *testing.T) {
	ob := newOrderBook("TEST")
	if _, _, ok := ob.bestBidAsk(); ok {
		t.Fatalf("expected no best bid/ask on an empty book")
	}

	ob.insert(&Order{OrderID: "b1", Side: Buy, Price: 100, Qty: 1})
	ob.insert(&Order{OrderID: "a1", Side: Sell, Price: 105, Qty: 1})

	bid, ask, ok := ob.bestBidAsk()
	if !ok || bid != 100 || ask != 105 {
		t.Fatalf("expected (100, 105, true), got (%d, %d, %v)", bid, ask, ok)
	}
}

func TestOrderBookDecrementQtyLeavesOrderResting(t *testing.T) {
	ob := newOrderBook("TEST")
	order := &Order{OrderID: "b1", Side: Buy, Price: 100, Qty: 10}
	ob.insert(order)

	ob.decrementQty(order, 4)
	if order.Qty != 6 {
		t.Fatalf("expected remaining qty 6, got %d", order.Qty)
	}
	if _, ok := ob.lookup("b1"); !ok {
		t.Fatalf("expected partially filled resting order to remain indexed")
	}
}
