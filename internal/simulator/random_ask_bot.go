package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/tsolander/matchbook/internal/engine"
)

// RandomAskBot places limit asks around the mid price at a fixed interval.
// It never cancels: a rested ask simply waits for a crossing bid.
type RandomAskBot struct {
	Interval   time.Duration
	Quantity   int64
	RangeTicks int64
	rand       *rand.Rand
}

func NewRandomAskBot() *RandomAskBot {
	return &RandomAskBot{
		Interval:   200 * time.Millisecond,
		Quantity:   1,
		RangeTicks: 5,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *RandomAskBot) Start(ctx context.Context, client EngineClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.placeAsk(ctx, client)
		}
	}
}

func (b *RandomAskBot) placeAsk(ctx context.Context, client EngineClient) {
	snap, err := client.Snapshot(ctx)
	if err != nil {
		return
	}
	mid := midPrice(snap)
	if mid <= 0 {
		mid = 100
	}

	delta := b.rand.Int63n(b.RangeTicks + 1)
	price := mid + delta

	_, _ = client.SubmitOrder(ctx, engine.Sell, price, b.Quantity)
}
