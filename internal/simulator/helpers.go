package simulator

import "github.com/tsolander/matchbook/internal/engine"

func midPrice(snap engine.BookSnapshot) int64 {
	var bid, ask int64
	if len(snap.Bids) > 0 {
		bid = snap.Bids[0].Price
	}
	if len(snap.Asks) > 0 {
		ask = snap.Asks[0].Price
	}

	switch {
	case bid > 0 && ask > 0:
		return (bid + ask) / 2
	case bid > 0:
		return bid
	case ask > 0:
		return ask
	default:
		return 0
	}
}
