// Command dashboard subscribes to a symbol's NATS trades.*/orderbook.*
// subjects and renders the latest book levels and recent trades as a
// refreshing terminal table. It has no handle to engine state — only to
// the two normative wire payloads of SPEC_FULL.md §6.
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

type tradeRow struct {
	price, qty, timestamp int64
}

type dashboardState struct {
	mu     sync.Mutex
	bids   []levelRow
	asks   []levelRow
	trades []tradeRow
}

type levelRow struct {
	price, qty int64
}

func main() {
	natsURL := flag.String("nats", nats.DefaultURL, "NATS server URL")
	symbol := flag.String("symbol", "BTCUSD", "symbol to watch")
	refresh := flag.Duration("refresh", 500*time.Millisecond, "terminal redraw interval")
	recentTrades := flag.Int("recent-trades", 10, "number of recent trades kept on screen")
	flag.Parse()

	conn, err := nats.Connect(*natsURL)
	if err != nil {
		fmt.Printf("failed to connect to nats: %v\n", err)
		return
	}
	defer conn.Close()

	state := &dashboardState{}

	tradeSub, err := conn.Subscribe(fmt.Sprintf("trades.%s", *symbol), func(m *nats.Msg) {
		trade, ok := parseTradePayload(string(m.Data))
		if !ok {
			return
		}
		state.mu.Lock()
		state.trades = append(state.trades, trade)
		if len(state.trades) > *recentTrades {
			state.trades = state.trades[len(state.trades)-*recentTrades:]
		}
		state.mu.Unlock()
	})
	if err != nil {
		fmt.Printf("failed to subscribe to trades: %v\n", err)
		return
	}
	defer tradeSub.Unsubscribe()

	bookSub, err := conn.Subscribe(fmt.Sprintf("orderbook.%s", *symbol), func(m *nats.Msg) {
		bids, asks := parseOrderBookPayload(string(m.Data))
		state.mu.Lock()
		state.bids = bids
		state.asks = asks
		state.mu.Unlock()
	})
	if err != nil {
		fmt.Printf("failed to subscribe to order book: %v\n", err)
		return
	}
	defer bookSub.Unsubscribe()

	ticker := time.NewTicker(*refresh)
	defer ticker.Stop()
	for range ticker.C {
		render(*symbol, state)
	}
}

func render(symbol string, state *dashboardState) {
	state.mu.Lock()
	bids := append([]levelRow(nil), state.bids...)
	asks := append([]levelRow(nil), state.asks...)
	trades := append([]tradeRow(nil), state.trades...)
	state.mu.Unlock()

	fmt.Print("\033[H\033[2J")
	fmt.Printf("matchbook dashboard — %s\n\n", symbol)

	fmt.Println("bids           asks")
	rows := len(bids)
	if len(asks) > rows {
		rows = len(asks)
	}
	for i := 0; i < rows && i < 10; i++ {
		var bidCol, askCol string
		if i < len(bids) {
			bidCol = fmt.Sprintf("%6d @ %-6d", bids[i].qty, bids[i].price)
		}
		if i < len(asks) {
			askCol = fmt.Sprintf("%6d @ %-6d", asks[i].qty, asks[i].price)
		}
		fmt.Printf("%-15s %-15s\n", bidCol, askCol)
	}

	fmt.Println("\nrecent trades")
	for _, t := range trades {
		fmt.Printf("  price=%d qty=%d ts=%d\n", t.price, t.qty, t.timestamp)
	}
}

// parseTradePayload parses the normative "price,qty,timestamp_ms" wire
// format.
func parseTradePayload(payload string) (tradeRow, bool) {
	parts := strings.Split(payload, ",")
	if len(parts) != 3 {
		return tradeRow{}, false
	}
	price, err1 := strconv.ParseInt(parts[0], 10, 64)
	qty, err2 := strconv.ParseInt(parts[1], 10, 64)
	ts, err3 := strconv.ParseInt(parts[2], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return tradeRow{}, false
	}
	return tradeRow{price: price, qty: qty, timestamp: ts}, true
}

// parseOrderBookPayload parses the normative "bids\nasks" wire format,
// each side a "|"-joined list of "price,qty".
func parseOrderBookPayload(payload string) (bids, asks []levelRow) {
	lines := strings.SplitN(payload, "\n", 2)
	if len(lines) != 2 {
		return nil, nil
	}
	return parseLevels(lines[0]), parseLevels(lines[1])
}

func parseLevels(side string) []levelRow {
	if side == "" {
		return nil
	}
	var out []levelRow
	for _, part := range strings.Split(side, "|") {
		fields := strings.Split(part, ",")
		if len(fields) != 2 {
			continue
		}
		price, err1 := strconv.ParseInt(fields[0], 10, 64)
		qty, err2 := strconv.ParseInt(fields[1], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, levelRow{price: price, qty: qty})
	}
	return out
}
