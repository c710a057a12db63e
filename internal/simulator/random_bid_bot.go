package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/tsolander/matchbook/internal/engine"
)

// RandomBidBot places limit bids around the mid price at a fixed interval.
// It never cancels: a rested bid simply waits for a crossing ask.
type RandomBidBot struct {
	Interval   time.Duration
	Quantity   int64
	RangeTicks int64
	rand       *rand.Rand
}

func NewRandomBidBot() *RandomBidBot {
	return &RandomBidBot{
		Interval:   200 * time.Millisecond,
		Quantity:   1,
		RangeTicks: 5,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *RandomBidBot) Start(ctx context.Context, client EngineClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.placeBid(ctx, client)
		}
	}
}

func (b *RandomBidBot) placeBid(ctx context.Context, client EngineClient) {
	snap, err := client.Snapshot(ctx)
	if err != nil {
		return
	}
	mid := midPrice(snap)
	if mid <= 0 {
		mid = 100
	}

	delta := b.rand.Int63n(b.RangeTicks + 1)
	price := mid - delta
	if price <= 0 {
		price = 1
	}

	_, _ = client.SubmitOrder(ctx, engine.Buy, price, b.Quantity)
}
