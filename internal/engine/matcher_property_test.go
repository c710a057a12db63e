package engine

import (
	"context"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Feature: limit-order matching core, invariants from SPEC_FULL.md §8.

// TestProperty_BestBidBelowBestAsk checks invariant 5: if both sides are
// non-empty, the best bid is strictly less than the best ask — otherwise
// the submission that created the crossing state would have matched.
func TestProperty_BestBidBelowBestAsk(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewManager(ManagerConfig{
			PublishThrottle: 0,
			Clock:           func() time.Time { return time.Unix(0, 0) },
		})
		defer m.Stop()

		n := rapid.IntRange(1, 60).Draw(t, "numOrders")
		for i := 0; i < n; i++ {
			side := Buy
			if rapid.Bool().Draw(t, "isSell") {
				side = Sell
			}
			price := rapid.Int64Range(1, 200).Draw(t, "price")
			qty := rapid.Int64Range(1, 20).Draw(t, "qty")
			user := rapid.Int64Range(1, 5).Draw(t, "user")
			m.Submit(context.Background(), "TEST", Limit, user, side, price, qty)
		}

		snap, err := m.Snapshot(context.Background(), "TEST")
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if len(snap.Bids) == 0 || len(snap.Asks) == 0 {
			return
		}
		if snap.Bids[0].Price >= snap.Asks[0].Price {
			t.Fatalf("best bid %d is not strictly below best ask %d", snap.Bids[0].Price, snap.Asks[0].Price)
		}
	})
}

// TestProperty_RestingOrdersNeverHaveNonPositiveQty checks invariant 2.
func TestProperty_RestingOrdersNeverHaveNonPositiveQty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		se := newSymbolEngine(Config{Symbol: "TEST", Clock: func() time.Time { return time.Unix(0, 0) }})

		n := rapid.IntRange(1, 60).Draw(t, "numOrders")
		for i := 0; i < n; i++ {
			side := Buy
			if rapid.Bool().Draw(t, "isSell") {
				side = Sell
			}
			price := rapid.Int64Range(1, 50).Draw(t, "price")
			qty := rapid.Int64Range(1, 20).Draw(t, "qty")
			req := submitRequest{orderType: Limit, userID: 1, side: side, price: price, qty: qty}
			se.processSubmit(req, time.Unix(0, 0))
		}

		for _, order := range se.book.orders {
			if order.Qty <= 0 {
				t.Fatalf("resting order %s has non-positive qty %d", order.OrderID, order.Qty)
			}
		}
	})
}

// TestProperty_IndexedOrderMatchesOrderMap checks invariant 1: every order
// reachable from a book side's FIFO queue has an identical record in the
// order map, and vice versa.
func TestProperty_IndexedOrderMatchesOrderMap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		se := newSymbolEngine(Config{Symbol: "TEST", Clock: func() time.Time { return time.Unix(0, 0) }})

		n := rapid.IntRange(1, 60).Draw(t, "numOrders")
		for i := 0; i < n; i++ {
			side := Buy
			if rapid.Bool().Draw(t, "isSell") {
				side = Sell
			}
			price := rapid.Int64Range(1, 50).Draw(t, "price")
			qty := rapid.Int64Range(1, 20).Draw(t, "qty")
			req := submitRequest{orderType: Limit, userID: 1, side: side, price: price, qty: qty}
			se.processSubmit(req, time.Unix(0, 0))
		}

		seenInBook := make(map[string]bool)
		for _, side := range []*book{se.book.bids, se.book.asks} {
			side.levels.Ascend(func(lv *priceLevel) bool {
				for e := lv.queue.Front(); e != nil; e = e.Next() {
					o := e.Value.(*Order)
					seenInBook[o.OrderID] = true
					mapped, ok := se.book.orders[o.OrderID]
					if !ok {
						t.Fatalf("order %s indexed in book but missing from order map", o.OrderID)
					}
					if mapped.Price != o.Price || mapped.Side != o.Side {
						t.Fatalf("order map record for %s disagrees with its book entry", o.OrderID)
					}
				}
				return true
			})
		}
		for id := range se.book.orders {
			if !seenInBook[id] {
				t.Fatalf("order %s present in order map but not indexed in either book side", id)
			}
		}
	})
}

// TestProperty_EarlierMakerTradesFirst checks invariant 4: two resting
// orders at the same price on the same side are matched in arrival order.
func TestProperty_EarlierMakerTradesFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pub := NewHubPublisher()
		trades := pub.SubscribeTrades("TEST", 1)
		defer trades.Close()
		m := NewManager(ManagerConfig{
			PublishThrottle: 0,
			Clock:           func() time.Time { return time.Unix(0, 0) },
			Publisher:       pub,
		})
		defer m.Stop()

		price := rapid.Int64Range(1, 100).Draw(t, "price")
		qtyPerMaker := rapid.Int64Range(1, 10).Draw(t, "qtyPerMaker")
		numMakers := rapid.IntRange(2, 5).Draw(t, "numMakers")

		var firstMakerID string
		for i := 0; i < numMakers; i++ {
			out := m.Submit(context.Background(), "TEST", Limit, int64(i), Buy, price, qtyPerMaker)
			if out.Status != StatusOpen {
				t.Fatalf("expected maker %d to rest, got %+v", i, out)
			}
			if i == 0 {
				firstMakerID = out.OrderID
			}
		}

		out := m.Submit(context.Background(), "TEST", Limit, 99, Sell, price, qtyPerMaker)
		if len(out.TradeIDs) != 1 {
			t.Fatalf("expected exactly one trade against the earliest maker, got %+v", out)
		}
		if trade := <-trades.C(); trade.MakerOrderID != firstMakerID {
			t.Fatalf("expected the trade against the earliest maker %s, got maker %s", firstMakerID, trade.MakerOrderID)
		}

		snap, _ := m.Snapshot(context.Background(), "TEST")
		if len(snap.Bids) != 1 {
			t.Fatalf("expected a single aggregated bid level remaining, got %+v", snap.Bids)
		}
		wantQty := qtyPerMaker * int64(numMakers-1)
		if snap.Bids[0].Qty != wantQty {
			t.Fatalf("expected remaining qty %d (maker 0 consumed first), got %d", wantQty, snap.Bids[0].Qty)
		}
	})
}
