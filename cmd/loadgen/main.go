// Command loadgen generates a configurable stream of synthetic orders
// against the matching core and reports orders/sec and trades/sec. Order
// cancellation has no flag here because the core exposes no cancel
// operation (SPEC_FULL.md §6).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"github.com/tsolander/matchbook/internal/engine"
)

func main() {
	totalOrders := flag.Int("orders", 500000, "number of orders to submit")
	priceLevels := flag.Int64("price-levels", 200, "unique price levels around the mid")
	basePrice := flag.Int64("base-price", 10000, "mid price used for randomization")
	symbol := flag.String("symbol", "SIM", "symbol to trade")
	requestBuffer := flag.Int("request-buffer", 2048, "submit queue length")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write heap profile to file")
	marketRatio := flag.Int("market-ratio", 0, "1 in N orders will be market instead of limit, to exercise the not_implemented path")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	mgr := engine.NewManager(engine.ManagerConfig{RequestBuffer: *requestBuffer})
	defer mgr.Stop()

	var trades, rejectedAsNotImplemented int64
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < *totalOrders; i++ {
		orderType, side, price, qty, userID := nextRandomOrder(rng, i, *basePrice, *priceLevels, *marketRatio)
		out := mgr.Submit(ctx, *symbol, orderType, userID, side, price, qty)
		switch out.Status {
		case engine.StatusFilled, engine.StatusPartial:
			atomic.AddInt64(&trades, int64(len(out.TradeIDs)))
		case engine.StatusError:
			if out.Error == engine.ErrNotImplemented {
				atomic.AddInt64(&rejectedAsNotImplemented, 1)
			}
		}
	}
	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err == nil {
			defer f.Close()
			_ = pprof.WriteHeapProfile(f)
		}
	}

	ordersPerSec := float64(*totalOrders) / elapsed.Seconds()
	tradesPerSec := float64(trades) / elapsed.Seconds()

	fmt.Printf("submitted %d orders in %s (%.0f orders/s)\n", *totalOrders, elapsed.Truncate(time.Millisecond), ordersPerSec)
	fmt.Printf("matched %d trades (%.0f trades/s)\n", trades, tradesPerSec)
	if *marketRatio > 0 {
		fmt.Printf("rejected %d market orders as not_implemented\n", rejectedAsNotImplemented)
	}
	fmt.Printf("config: request-buffer=%d market-ratio=1/%d\n", *requestBuffer, *marketRatio)
}

func nextRandomOrder(rng *rand.Rand, id int, mid, width int64, marketRatio int) (engine.OrderType, engine.Side, int64, int64, int64) {
	side := engine.Side(rng.Intn(2))
	var price int64
	if side == engine.Buy {
		price = mid + rng.Int63n(width)
	} else {
		offset := rng.Int63n(width)
		if mid > offset {
			price = mid - offset
		} else {
			price = 1
		}
	}

	orderType := engine.Limit
	if marketRatio > 0 && rng.Intn(marketRatio) == 0 {
		orderType = engine.Market
	}

	qty := rng.Int63n(5) + 1
	userID := int64(id%1000 + 1)

	return orderType, side, price, qty, userID
}
