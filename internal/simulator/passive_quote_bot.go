package simulator

import (
	"context"
	"time"

	"github.com/tsolander/matchbook/internal/engine"
)

// PassiveQuoteBot posts a symmetric bid/ask pair straddling the mid price
// at a fixed interval. Unlike the teacher's spread-capture bot, it never
// cancels and reprices a stale pair — order cancellation is a Non-goal of
// the core, so successive pairs simply accumulate and rest until a taker
// crosses them.
type PassiveQuoteBot struct {
	Interval  time.Duration
	HalfTicks int64
	Quantity  int64
}

func NewPassiveQuoteBot() *PassiveQuoteBot {
	return &PassiveQuoteBot{
		Interval:  300 * time.Millisecond,
		HalfTicks: 2,
		Quantity:  1,
	}
}

func (b *PassiveQuoteBot) Start(ctx context.Context, client EngineClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.postPair(ctx, client)
		}
	}
}

func (b *PassiveQuoteBot) postPair(ctx context.Context, client EngineClient) {
	snap, err := client.Snapshot(ctx)
	if err != nil {
		return
	}
	mid := midPrice(snap)
	if mid <= 0 {
		return
	}

	buyPrice := mid - b.HalfTicks
	if buyPrice <= 0 {
		buyPrice = 1
	}
	sellPrice := mid + b.HalfTicks
	if sellPrice <= buyPrice {
		sellPrice = buyPrice + 1
	}

	_, _ = client.SubmitOrder(ctx, engine.Buy, buyPrice, b.Quantity)
	_, _ = client.SubmitOrder(ctx, engine.Sell, sellPrice, b.Quantity)
}
