package engine

// tradeStore is the in-memory, append-only trade ledger for one symbol.
// Nothing here survives process restart — persistence across restart is an
// explicit Non-goal (SPEC_FULL.md §1).
type tradeStore struct {
	bySeq []Trade
	byID  map[string]Trade
}

func newTradeStore() *tradeStore {
	return &tradeStore{byID: make(map[string]Trade)}
}

func (s *tradeStore) append(t Trade) {
	s.bySeq = append(s.bySeq, t)
	s.byID[t.TradeID] = t
}

func (s *tradeStore) get(tradeID string) (Trade, bool) {
	t, ok := s.byID[tradeID]
	return t, ok
}

func (s *tradeStore) len() int {
	return len(s.bySeq)
}

// recorder persists trades and forwards them to the configured publisher.
// It is owned by a single symbol's worker and never touched concurrently.
type recorder struct {
	symbol    string
	store     *tradeStore
	publisher Publisher
}

func newRecorder(symbol string, publisher Publisher) *recorder {
	return &recorder{symbol: symbol, store: newTradeStore(), publisher: publisher}
}

// recordTrade allocates a trade id, persists the trade, and emits it on the
// symbol's trade publish channel. Publishing is best-effort: a publish
// failure never unwinds the state change that already committed (§7).
func (r *recorder) recordTrade(seq *sequencer, timestampMs int64, maker *Order, takerOrderID string, takerUserID, price, qty int64) string {
	tradeID := formatTradeID(timestampMs, seq.nextTradeSeq())
	trade := Trade{
		TradeID:      tradeID,
		Symbol:       r.symbol,
		MakerOrderID: maker.OrderID,
		MakerUserID:  maker.UserID,
		TakerOrderID: takerOrderID,
		TakerUserID:  takerUserID,
		Price:        price,
		Qty:          qty,
		Timestamp:    timestampMs,
	}
	r.store.append(trade)
	if r.publisher != nil {
		r.publisher.PublishTrade(r.symbol, trade)
	}
	return tradeID
}
