package simulator

import (
	"context"
	"time"

	"github.com/tsolander/matchbook/internal/engine"
)

// ThrottledClient wraps an engine.Manager handle for one symbol and user,
// rate-limiting submissions through a shared ticker so a swarm of bots
// doesn't flood a single symbol's worker queue.
type ThrottledClient struct {
	mgr      *engine.Manager
	symbol   string
	userID   int64
	throttle <-chan time.Time
}

// NewThrottledClient builds a client bound to one symbol and simulated
// user, submitting no faster than throttle ticks.
func NewThrottledClient(mgr *engine.Manager, symbol string, userID int64, throttle <-chan time.Time) *ThrottledClient {
	return &ThrottledClient{mgr: mgr, symbol: symbol, userID: userID, throttle: throttle}
}

func (c *ThrottledClient) waitThrottle(ctx context.Context) error {
	if c.throttle == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.throttle:
		return nil
	}
}

func (c *ThrottledClient) SubmitOrder(ctx context.Context, side engine.Side, price, qty int64) (engine.Outcome, error) {
	if err := c.waitThrottle(ctx); err != nil {
		return engine.Outcome{}, err
	}
	out := c.mgr.Submit(ctx, c.symbol, engine.Limit, c.userID, side, price, qty)
	return out, nil
}

func (c *ThrottledClient) Snapshot(ctx context.Context) (engine.BookSnapshot, error) {
	return c.mgr.Snapshot(ctx, c.symbol)
}

func (c *ThrottledClient) Symbol() string { return c.symbol }
func (c *ThrottledClient) UserID() int64  { return c.userID }
