package simulator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tsolander/matchbook/internal/engine"
)

// trackingClient wraps a ThrottledClient and records every order-id it has
// ever submitted, so the PnL tracker can attribute fills to this bot swarm
// without a cancel-tracking mechanism (there is none).
type trackingClient struct {
	*ThrottledClient
	mu    sync.Mutex
	sides map[string]engine.Side
}

func newTrackingClient(inner *ThrottledClient) *trackingClient {
	return &trackingClient{ThrottledClient: inner, sides: make(map[string]engine.Side)}
}

func (c *trackingClient) SubmitOrder(ctx context.Context, side engine.Side, price, qty int64) (engine.Outcome, error) {
	out, err := c.ThrottledClient.SubmitOrder(ctx, side, price, qty)
	if err == nil && out.OrderID != "" {
		c.mu.Lock()
		c.sides[out.OrderID] = side
		c.mu.Unlock()
	}
	return out, err
}

// sideOf reports the side this client submitted order id under, and
// whether it was ever submitted by this client at all.
func (c *trackingClient) sideOf(id string) (engine.Side, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sides[id]
	return s, ok
}

// Supervisor orchestrates a swarm of bots against one symbol and tracks
// the resulting simulated position and cash from fills attributed to
// orders the swarm itself placed.
type Supervisor struct {
	bots     []Bot
	client   *trackingClient
	pnl      *pnlTracker
	throttle *time.Ticker
	sub      *engine.TradeSubscription
	logger   *zap.Logger
}

// NewSupervisor builds the default swarm described in SPEC_FULL.md §6: two
// random bid posters, two random ask posters, and one passive quote
// poster, all sharing one throttled client and one simulated user id.
func NewSupervisor(mgr *engine.Manager, pub *engine.HubPublisher, symbol string, userID int64, orderInterval time.Duration, logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	throttle := time.NewTicker(orderInterval)
	client := newTrackingClient(NewThrottledClient(mgr, symbol, userID, throttle.C))
	bots := []Bot{
		NewRandomBidBot(),
		NewRandomAskBot(),
		NewRandomBidBot(),
		NewRandomAskBot(),
		NewPassiveQuoteBot(),
	}

	var sub *engine.TradeSubscription
	if pub != nil {
		sub = pub.SubscribeTrades(symbol, 256)
	}

	return &Supervisor{
		bots:     bots,
		client:   client,
		pnl:      &pnlTracker{},
		throttle: throttle,
		sub:      sub,
		logger:   logger,
	}
}

// Start launches all bots and PnL monitoring until the context is canceled.
func (s *Supervisor) Start(ctx context.Context) {
	logTicker := time.NewTicker(2 * time.Second)
	defer logTicker.Stop()
	defer s.throttle.Stop()
	if s.sub != nil {
		defer s.sub.Close()
	}

	for _, bot := range s.bots {
		b := bot
		go b.Start(ctx, s.client)
	}

	if s.sub != nil {
		go s.consumeTrades(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-logTicker.C:
			pos, cash := s.pnl.Snapshot()
			s.logger.Info("simulator pnl", zap.Int64("position", pos), zap.Int64("cash", cash))
		}
	}
}

func (s *Supervisor) consumeTrades(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trade, ok := <-s.sub.C():
			if !ok {
				return
			}
			s.pnl.Record(trade, s.client)
		}
	}
}

type pnlTracker struct {
	mu       sync.Mutex
	position int64
	cash     int64
}

// Record attributes a trade's effect on position and cash to whichever
// side(s) of it this swarm's client placed. A self-trade, where the swarm
// owns both the maker and the taker order, nets to zero and is recorded
// as such rather than double-counted.
func (p *pnlTracker) Record(trade engine.Trade, client *trackingClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if side, ok := client.sideOf(trade.TakerOrderID); ok {
		p.apply(side, trade.Price, trade.Qty)
	}
	if side, ok := client.sideOf(trade.MakerOrderID); ok {
		p.apply(side, trade.Price, trade.Qty)
	}
}

func (p *pnlTracker) apply(side engine.Side, price, qty int64) {
	if side == engine.Buy {
		p.position += qty
		p.cash -= price * qty
	} else {
		p.position -= qty
		p.cash += price * qty
	}
}

func (p *pnlTracker) Snapshot() (int64, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position, p.cash
}
