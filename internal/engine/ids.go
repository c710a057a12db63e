package engine

import "strconv"

// orderSeqCap, sideSeqCap, and tradeSeqCap bound the textual width of the
// composite ids in §4.1. They are not uniqueness guarantees by themselves —
// see the wraparound note in SPEC_FULL.md §9.
const (
	orderSeqCap = 100000
	sideSeqCap  = 100
	tradeSeqCap = 100
)

// sequencer hands out the four monotonic, wrapping counters a single
// symbol needs. It is only ever touched from the symbol's own worker
// goroutine, so it needs no internal synchronization.
type sequencer struct {
	orderSeq int64
	buySeq   int64
	sellSeq  int64
	tradeSeq int64
}

func (s *sequencer) nextOrderSeq() int64 {
	s.orderSeq++
	if s.orderSeq >= orderSeqCap {
		s.orderSeq = 0
	}
	return s.orderSeq
}

func (s *sequencer) nextSideSeq(side Side) int64 {
	if side == Buy {
		s.buySeq++
		if s.buySeq >= sideSeqCap {
			s.buySeq = 0
		}
		return s.buySeq
	}
	s.sellSeq++
	if s.sellSeq >= sideSeqCap {
		s.sellSeq = 0
	}
	return s.sellSeq
}

func (s *sequencer) nextTradeSeq() int64 {
	s.tradeSeq++
	if s.tradeSeq >= tradeSeqCap {
		s.tradeSeq = 0
	}
	return s.tradeSeq
}

// formatOrderID renders "{timestamp_ms}-{order_seq:05d}".
func formatOrderID(timestampMs, orderSeq int64) string {
	return strconv.FormatInt(timestampMs, 10) + "-" + padSeq(orderSeq)
}

// formatTradeID renders timestamp_ms*100 + trade_seq as a decimal string.
func formatTradeID(timestampMs, tradeSeq int64) string {
	return strconv.FormatInt(timestampMs*100+tradeSeq, 10)
}

func padSeq(seq int64) string {
	s := strconv.FormatInt(seq, 10)
	for len(s) < 5 {
		s = "0" + s
	}
	return s
}
