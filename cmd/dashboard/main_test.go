package main

import "testing"

func TestParseTradePayload(t *testing.T) {
	trade, ok := parseTradePayload("101,3,1700000000000")
	if !ok {
		t.Fatal("expected successful parse")
	}
	if trade.price != 101 || trade.qty != 3 || trade.timestamp != 1700000000000 {
		t.Fatalf("unexpected trade: %+v", trade)
	}
}

func TestParseTradePayloadRejectsMalformed(t *testing.T) {
	if _, ok := parseTradePayload("not,a,trade,payload"); ok {
		t.Fatal("expected parse failure on malformed payload")
	}
	if _, ok := parseTradePayload("abc,3,123"); ok {
		t.Fatal("expected parse failure on non-numeric price")
	}
}

func TestParseOrderBookPayload(t *testing.T) {
	bids, asks := parseOrderBookPayload("100,5|99,2\n101,3")
	if len(bids) != 2 || bids[0] != (levelRow{price: 100, qty: 5}) || bids[1] != (levelRow{price: 99, qty: 2}) {
		t.Fatalf("unexpected bids: %+v", bids)
	}
	if len(asks) != 1 || asks[0] != (levelRow{price: 101, qty: 3}) {
		t.Fatalf("unexpected asks: %+v", asks)
	}
}

func TestParseOrderBookPayloadEmptySide(t *testing.T) {
	bids, asks := parseOrderBookPayload("\n101,3")
	if len(bids) != 0 {
		t.Fatalf("expected no bids, got %+v", bids)
	}
	if len(asks) != 1 {
		t.Fatalf("expected one ask, got %+v", asks)
	}
}
