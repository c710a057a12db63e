package engine

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes the same normative payloads as HubPublisher
// (SPEC_FULL.md §6) to NATS subjects, so an out-of-process subscriber like
// the terminal dashboard can consume them without a handle to engine state.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher wraps an already-connected *nats.Conn. The caller owns
// the connection's lifecycle.
func NewNATSPublisher(conn *nats.Conn, logger *zap.Logger) *NATSPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSPublisher{conn: conn, logger: logger}
}

func tradeSubject(symbol string) string     { return fmt.Sprintf("trades.%s", symbol) }
func orderBookSubject(symbol string) string { return fmt.Sprintf("orderbook.%s", symbol) }

func (p *NATSPublisher) PublishTrade(symbol string, trade Trade) {
	payload := TradePayload(trade)
	if err := p.conn.Publish(tradeSubject(symbol), []byte(payload)); err != nil {
		p.logger.Warn("nats publish trade failed", zap.String("symbol", symbol), zap.Error(err))
	}
}

func (p *NATSPublisher) PublishOrderBook(symbol string, snap BookSnapshot) {
	payload := OrderBookPayload(snap)
	if err := p.conn.Publish(orderBookSubject(symbol), []byte(payload)); err != nil {
		p.logger.Warn("nats publish orderbook failed", zap.String("symbol", symbol), zap.Error(err))
	}
}
