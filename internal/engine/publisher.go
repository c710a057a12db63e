package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Publisher emits trade and order-book events for a symbol. Two
// implementations exist side by side per SPEC_FULL.md §4.5: an in-process
// generic hub for local subscribers (the HTTP/WebSocket front end, tests)
// and a NATS-backed transport for out-of-process subscribers (the terminal
// dashboard). A MultiPublisher fans a single call out to several.
type Publisher interface {
	PublishTrade(symbol string, trade Trade)
	PublishOrderBook(symbol string, snap BookSnapshot)
}

// TradePayload renders the normative "price,qty,timestamp_ms" wire format
// for the trades.{symbol} channel (SPEC_FULL.md §6).
func TradePayload(t Trade) string {
	return fmt.Sprintf("%d,%d,%d", t.Price, t.Qty, t.Timestamp)
}

// OrderBookPayload renders the normative "bids\nasks" wire format for the
// orderbook.{symbol} channel, each side a "|"-joined list of "price,qty".
func OrderBookPayload(snap BookSnapshot) string {
	return fmt.Sprintf("%s\n%s", renderLevels(snap.Bids), renderLevels(snap.Asks))
}

func renderLevels(levels []PriceLevel) string {
	parts := make([]string, len(levels))
	for i, lv := range levels {
		parts[i] = fmt.Sprintf("%d,%d", lv.Price, lv.Qty)
	}
	return strings.Join(parts, "|")
}

// subscription is one consumer's channel into a hub.
type subscription[T any] struct {
	id uuid.UUID
	ch chan T
}

// hub is a generic fan-out broadcaster: every Subscribe gets its own
// buffered channel, and Broadcast drops the message for any subscriber
// whose buffer is full rather than block the publisher.
type hub[T any] struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]*subscription[T]
}

func newHub[T any]() *hub[T] {
	return &hub[T]{subs: make(map[uuid.UUID]*subscription[T])}
}

func (h *hub[T]) Subscribe(buffer int) *subscription[T] {
	sub := &subscription[T]{id: uuid.New(), ch: make(chan T, buffer)}
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	return sub
}

func (h *hub[T]) Unsubscribe(sub *subscription[T]) {
	h.mu.Lock()
	delete(h.subs, sub.id)
	h.mu.Unlock()
	close(sub.ch)
}

func (h *hub[T]) Broadcast(value T) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		select {
		case sub.ch <- value:
		default:
		}
	}
}

// HubPublisher is the in-process Publisher: one trade hub and one
// order-book hub per symbol, created lazily on first use.
type HubPublisher struct {
	mu        sync.Mutex
	tradeHubs map[string]*hub[Trade]
	bookHubs  map[string]*hub[BookSnapshot]
}

func NewHubPublisher() *HubPublisher {
	return &HubPublisher{
		tradeHubs: make(map[string]*hub[Trade]),
		bookHubs:  make(map[string]*hub[BookSnapshot]),
	}
}

func (p *HubPublisher) tradeHub(symbol string) *hub[Trade] {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.tradeHubs[symbol]
	if !ok {
		h = newHub[Trade]()
		p.tradeHubs[symbol] = h
	}
	return h
}

func (p *HubPublisher) bookHub(symbol string) *hub[BookSnapshot] {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.bookHubs[symbol]
	if !ok {
		h = newHub[BookSnapshot]()
		p.bookHubs[symbol] = h
	}
	return h
}

func (p *HubPublisher) PublishTrade(symbol string, trade Trade) {
	p.tradeHub(symbol).Broadcast(trade)
}

func (p *HubPublisher) PublishOrderBook(symbol string, snap BookSnapshot) {
	p.bookHub(symbol).Broadcast(snap)
}

// TradeSubscription and BookSubscription are opaque handles returned to
// callers of Subscribe*; Close unsubscribes and drains no further events.
type TradeSubscription struct {
	hub *hub[Trade]
	sub *subscription[Trade]
}

func (s *TradeSubscription) C() <-chan Trade { return s.sub.ch }
func (s *TradeSubscription) Close()          { s.hub.Unsubscribe(s.sub) }

type BookSubscription struct {
	hub *hub[BookSnapshot]
	sub *subscription[BookSnapshot]
}

func (s *BookSubscription) C() <-chan BookSnapshot { return s.sub.ch }
func (s *BookSubscription) Close()                 { s.hub.Unsubscribe(s.sub) }

// SubscribeTrades registers a new local subscriber for a symbol's trade
// stream with the given channel buffer size.
func (p *HubPublisher) SubscribeTrades(symbol string, buffer int) *TradeSubscription {
	h := p.tradeHub(symbol)
	return &TradeSubscription{hub: h, sub: h.Subscribe(buffer)}
}

// SubscribeOrderBook registers a new local subscriber for a symbol's
// order-book snapshot stream with the given channel buffer size.
func (p *HubPublisher) SubscribeOrderBook(symbol string, buffer int) *BookSubscription {
	h := p.bookHub(symbol)
	return &BookSubscription{hub: h, sub: h.Subscribe(buffer)}
}

// MultiPublisher fans every call out to a fixed set of Publishers. A nil or
// failing downstream publisher never blocks the others.
type MultiPublisher struct {
	targets []Publisher
}

func NewMultiPublisher(targets ...Publisher) *MultiPublisher {
	nonNil := make([]Publisher, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			nonNil = append(nonNil, t)
		}
	}
	return &MultiPublisher{targets: nonNil}
}

func (m *MultiPublisher) PublishTrade(symbol string, trade Trade) {
	for _, t := range m.targets {
		t.PublishTrade(symbol, trade)
	}
}

func (m *MultiPublisher) PublishOrderBook(symbol string, snap BookSnapshot) {
	for _, t := range m.targets {
		t.PublishOrderBook(symbol, snap)
	}
}
