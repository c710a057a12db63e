package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for the matching core.
// A nil *Metrics is safe to use — every method is a no-op — so tests and
// small tools can construct an engine.Manager without a registry.
type Metrics struct {
	ordersSubmitted *prometheus.CounterVec
	tradesExecuted  *prometheus.CounterVec
	matchDuration   *prometheus.HistogramVec
	bookLevels      *prometheus.GaugeVec
}

// NewMetrics registers the core's instrumentation with reg and returns a
// handle to it. Pass prometheus.NewRegistry() in cmd/server, or nil to get
// a Metrics that records nothing.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &Metrics{
		ordersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matchbook",
			Name:      "orders_submitted_total",
			Help:      "Orders submitted to the matching engine, by symbol and outcome status.",
		}, []string{"symbol", "status"}),
		tradesExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matchbook",
			Name:      "trades_executed_total",
			Help:      "Trades executed by the matching engine, by symbol.",
		}, []string{"symbol"}),
		matchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "matchbook",
			Name:      "submit_duration_seconds",
			Help:      "Wall-clock time spent inside one Submit call's match loop.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"symbol"}),
		bookLevels: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "matchbook",
			Name:      "book_price_levels",
			Help:      "Number of distinct resting price levels, by symbol and side.",
		}, []string{"symbol", "side"}),
	}
}

func (m *Metrics) observeSubmit(symbol string, status Status, seconds float64) {
	if m == nil {
		return
	}
	m.ordersSubmitted.WithLabelValues(symbol, string(status)).Inc()
	m.matchDuration.WithLabelValues(symbol).Observe(seconds)
}

func (m *Metrics) observeTrades(symbol string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.tradesExecuted.WithLabelValues(symbol).Add(float64(count))
}

func (m *Metrics) observeLevels(symbol string, bidLevels, askLevels int) {
	if m == nil {
		return
	}
	m.bookLevels.WithLabelValues(symbol, "bid").Set(float64(bidLevels))
	m.bookLevels.WithLabelValues(symbol, "ask").Set(float64(askLevels))
}
