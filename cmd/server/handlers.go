package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tsolander/matchbook/internal/engine"
)

type submitOrderRequest struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
	Side   string `json:"side"`
	UserID int64  `json:"user_id"`
	Price  int64  `json:"price"`
	Qty    int64  `json:"qty"`
}

type outcomeResponse struct {
	Status       string   `json:"status"`
	Error        string   `json:"error,omitempty"`
	OrderID      string   `json:"order_id,omitempty"`
	RemainingQty int64    `json:"remaining_qty,omitempty"`
	TradeIDs     []string `json:"trade_ids,omitempty"`
}

func toOutcomeResponse(out engine.Outcome) outcomeResponse {
	return outcomeResponse{
		Status:       string(out.Status),
		Error:        string(out.Error),
		OrderID:      out.OrderID,
		RemainingQty: out.RemainingQty,
		TradeIDs:     out.TradeIDs,
	}
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderType, err := parseOrderType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	side, err := parseSide(req.Side)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	out := s.mgr.Submit(r.Context(), req.Symbol, orderType, req.UserID, side, req.Price, req.Qty)
	writeJSON(w, http.StatusOK, toOutcomeResponse(out))
}

type priceLevelResponse struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
}

type snapshotResponse struct {
	Symbol string               `json:"symbol"`
	Bids   []priceLevelResponse `json:"bids"`
	Asks   []priceLevelResponse `json:"asks"`
}

func toSnapshotResponse(snap engine.BookSnapshot) snapshotResponse {
	resp := snapshotResponse{Symbol: snap.Symbol}
	for _, lv := range snap.Bids {
		resp.Bids = append(resp.Bids, priceLevelResponse{Price: lv.Price, Qty: lv.Qty})
	}
	for _, lv := range snap.Asks {
		resp.Asks = append(resp.Asks, priceLevelResponse{Price: lv.Price, Qty: lv.Qty})
	}
	return resp
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	snap, err := s.mgr.Snapshot(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

func (s *server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.pub.SubscribeTrades(symbol, 32)
	defer sub.Close()

	for trade := range sub.C() {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(engine.TradePayload(trade))); err != nil {
			return
		}
	}
}

func (s *server) handleBookStream(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.pub.SubscribeOrderBook(symbol, 32)
	defer sub.Close()

	for snap := range sub.C() {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(engine.OrderBookPayload(snap))); err != nil {
			return
		}
	}
}

func parseSide(value string) (engine.Side, error) {
	switch strings.ToLower(value) {
	case "buy", "bid", "b":
		return engine.Buy, nil
	case "sell", "ask", "s":
		return engine.Sell, nil
	default:
		return 0, errUnknownSide(value)
	}
}

func parseOrderType(value string) (engine.OrderType, error) {
	switch strings.ToLower(value) {
	case "limit", "lmt", "":
		return engine.Limit, nil
	case "market", "mkt":
		return engine.Market, nil
	default:
		return 0, errUnknownOrderType(value)
	}
}

func errUnknownSide(v string) error      { return &unknownValueError{kind: "side", value: v} }
func errUnknownOrderType(v string) error { return &unknownValueError{kind: "order type", value: v} }

type unknownValueError struct {
	kind  string
	value string
}

func (e *unknownValueError) Error() string {
	return "unknown " + e.kind + ": " + e.value
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
