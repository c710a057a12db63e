package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublisherDeliversToSubscriber(t *testing.T) {
	pub := NewHubPublisher()
	sub := pub.SubscribeTrades("BTC", 4)
	defer sub.Close()

	trade := Trade{TradeID: "1", Symbol: "BTC", Price: 100, Qty: 5, Timestamp: 123}
	pub.PublishTrade("BTC", trade)

	select {
	case got := <-sub.C():
		assert.Equal(t, trade, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for trade on subscription")
	}
}

func TestHubPublisherIsolatesSymbols(t *testing.T) {
	pub := NewHubPublisher()
	btcSub := pub.SubscribeTrades("BTC", 4)
	defer btcSub.Close()
	ethSub := pub.SubscribeTrades("ETH", 4)
	defer ethSub.Close()

	pub.PublishTrade("BTC", Trade{TradeID: "1", Symbol: "BTC"})

	select {
	case <-btcSub.C():
	case <-time.After(time.Second):
		t.Fatal("expected BTC subscriber to receive its trade")
	}

	select {
	case <-ethSub.C():
		t.Fatal("ETH subscriber should not receive a BTC trade")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPublisherBroadcastDropsOnFullBuffer(t *testing.T) {
	pub := NewHubPublisher()
	sub := pub.SubscribeOrderBook("BTC", 1)
	defer sub.Close()

	pub.PublishOrderBook("BTC", BookSnapshot{Symbol: "BTC", Timestamp: 1})
	pub.PublishOrderBook("BTC", BookSnapshot{Symbol: "BTC", Timestamp: 2})

	first := <-sub.C()
	require.Equal(t, int64(1), first.Timestamp)

	select {
	case <-sub.C():
		t.Fatal("expected the second snapshot to be dropped, not queued")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMultiPublisherFansOutAndSkipsNil(t *testing.T) {
	a := NewHubPublisher()
	b := NewHubPublisher()
	multi := NewMultiPublisher(a, nil, b)

	subA := a.SubscribeTrades("BTC", 1)
	defer subA.Close()
	subB := b.SubscribeTrades("BTC", 1)
	defer subB.Close()

	trade := Trade{TradeID: "1", Symbol: "BTC"}
	multi.PublishTrade("BTC", trade)

	assert.Equal(t, trade, <-subA.C())
	assert.Equal(t, trade, <-subB.C())
}

func TestTradePayloadWireFormat(t *testing.T) {
	payload := TradePayload(Trade{Price: 101, Qty: 3, Timestamp: 1700000000000})
	assert.Equal(t, "101,3,1700000000000", payload)
}

func TestOrderBookPayloadWireFormat(t *testing.T) {
	snap := BookSnapshot{
		Bids: []PriceLevel{{Price: 100, Qty: 5}, {Price: 99, Qty: 2}},
		Asks: []PriceLevel{{Price: 101, Qty: 3}},
	}
	payload := OrderBookPayload(snap)
	assert.Equal(t, "100,5|99,2\n101,3", payload)
}

func TestOrderBookPayloadEmptySide(t *testing.T) {
	payload := OrderBookPayload(BookSnapshot{})
	assert.Equal(t, "\n", payload)
}
