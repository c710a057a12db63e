// Command cli is a line-oriented front end for a single symbol's matching
// engine: it reads whitespace-separated commands from stdin and forwards
// them to Submit/Snapshot, printing the resulting Outcome. It has no
// access to engine internals beyond those two calls (SPEC_FULL.md §6).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tsolander/matchbook/internal/engine"
)

func main() {
	symbol := flag.String("symbol", "BTCUSD", "symbol this session trades")
	flag.Parse()

	mgr := engine.NewManager(engine.ManagerConfig{})
	defer mgr.Stop()

	fmt.Printf("matchbook cli — symbol %s. commands: buy <price> <qty> <user_id> | sell <price> <qty> <user_id> | book | quit\n", *symbol)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "buy", "sell":
			handleOrder(mgr, *symbol, fields)
		case "book":
			handleBook(mgr, *symbol)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func handleOrder(mgr *engine.Manager, symbol string, fields []string) {
	if len(fields) != 4 {
		fmt.Println("usage: buy|sell <price> <qty> <user_id>")
		return
	}
	price, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Printf("invalid price %q\n", fields[1])
		return
	}
	qty, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		fmt.Printf("invalid qty %q\n", fields[2])
		return
	}
	userID, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		fmt.Printf("invalid user_id %q\n", fields[3])
		return
	}

	side := engine.Buy
	if strings.ToLower(fields[0]) == "sell" {
		side = engine.Sell
	}

	out := mgr.Submit(context.Background(), symbol, engine.Limit, userID, side, price, qty)
	printOutcome(out)
}

func printOutcome(out engine.Outcome) {
	if out.Status == engine.StatusError {
		fmt.Printf("error: %s\n", out.Error)
		return
	}
	fmt.Printf("status=%s order_id=%s", out.Status, out.OrderID)
	if out.RemainingQty > 0 {
		fmt.Printf(" remaining_qty=%d", out.RemainingQty)
	}
	if len(out.TradeIDs) > 0 {
		fmt.Printf(" trade_ids=%s", strings.Join(out.TradeIDs, ","))
	}
	fmt.Println()
}

func handleBook(mgr *engine.Manager, symbol string) {
	snap, err := mgr.Snapshot(context.Background(), symbol)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("bids:")
	for _, lv := range snap.Bids {
		fmt.Printf("  %d @ %d\n", lv.Qty, lv.Price)
	}
	fmt.Println("asks:")
	for _, lv := range snap.Asks {
		fmt.Printf("  %d @ %d\n", lv.Qty, lv.Price)
	}
}
