package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ManagerConfig supplies the shared dependencies every symbol's engine is
// built with; only Symbol varies per instance.
type ManagerConfig struct {
	PublishThrottle time.Duration
	RequestBuffer   int
	Clock           func() time.Time
	Publisher       Publisher
	Logger          *zap.Logger
	Metrics         *Metrics
}

// Manager owns one symbolEngine per symbol, created lazily on first use,
// and is the only thing external callers hold a reference to. It has no
// access to any symbol's internal state beyond the Submit/Snapshot
// protocol (SPEC_FULL.md §3 "Ownership").
type Manager struct {
	cfg ManagerConfig

	mu      sync.RWMutex
	engines map[string]*symbolEngine
}

func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{cfg: cfg, engines: make(map[string]*symbolEngine)}
}

func (m *Manager) getOrCreate(symbol string) *symbolEngine {
	m.mu.RLock()
	se, ok := m.engines[symbol]
	m.mu.RUnlock()
	if ok {
		return se
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if se, ok = m.engines[symbol]; ok {
		return se
	}
	se = newSymbolEngine(Config{
		Symbol:          symbol,
		PublishThrottle: m.cfg.PublishThrottle,
		RequestBuffer:   m.cfg.RequestBuffer,
		Clock:           m.cfg.Clock,
		Publisher:       m.cfg.Publisher,
		Logger:          m.cfg.Logger,
		Metrics:         m.cfg.Metrics,
	})
	go se.run()
	m.engines[symbol] = se
	return se
}

// Submit is the single core entry point (SPEC_FULL.md §4.4). ctx bounds
// only the caller's wait for a reply; once the symbol's worker dequeues
// the request it always runs to completion.
func (m *Manager) Submit(ctx context.Context, symbol string, orderType OrderType, userID int64, side Side, price, qty int64) Outcome {
	se := m.getOrCreate(symbol)
	resp := make(chan Outcome, 1)
	req := submitRequest{
		orderType: orderType,
		userID:    userID,
		side:      side,
		price:     price,
		qty:       qty,
		resp:      resp,
	}

	select {
	case se.submitCh <- req:
	case <-ctx.Done():
		return Outcome{Status: StatusError, Error: ErrCanceled}
	}

	select {
	case out := <-resp:
		return out
	case <-ctx.Done():
		return Outcome{Status: StatusError, Error: ErrCanceled}
	}
}

// Snapshot returns the current top-of-book aggregation for symbol.
func (m *Manager) Snapshot(ctx context.Context, symbol string) (BookSnapshot, error) {
	se := m.getOrCreate(symbol)
	resp := make(chan BookSnapshot, 1)

	select {
	case se.snapshotCh <- snapshotRequest{depth: 100, resp: resp}:
	case <-ctx.Done():
		return BookSnapshot{}, ctx.Err()
	}

	select {
	case snap := <-resp:
		return snap, nil
	case <-ctx.Done():
		return BookSnapshot{}, ctx.Err()
	}
}

// Stop halts every symbol's worker goroutine. It does not drain in-flight
// requests.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, se := range m.engines {
		se.stop()
	}
}

// Symbols returns the set of symbols that have been touched at least once.
func (m *Manager) Symbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.engines))
	for s := range m.engines {
		out = append(out, s)
	}
	return out
}
