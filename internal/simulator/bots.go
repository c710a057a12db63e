// Package simulator runs a small swarm of independent trading bots against
// a shared matching engine handle, plus a PnL tracker over the trade
// stream. Order cancellation is a Non-goal of the core, so bots here never
// cancel: they post and let resting orders be filled whenever a taker
// crosses them (SPEC_FULL.md §6).
package simulator

import (
	"context"

	"github.com/tsolander/matchbook/internal/engine"
)

// Bot is a trading agent that can be run under a Supervisor.
type Bot interface {
	Start(ctx context.Context, client EngineClient)
}

// EngineClient abstracts the minimal surface bots need from the matching
// core: submit orders and read the current book. There is no cancel method
// because the core exposes none.
type EngineClient interface {
	SubmitOrder(ctx context.Context, side engine.Side, price, qty int64) (engine.Outcome, error)
	Snapshot(ctx context.Context) (engine.BookSnapshot, error)
	Symbol() string
	UserID() int64
}
