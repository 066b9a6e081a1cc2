package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos"

// Purchase outcomes
const (
	PurchaseRecorded = "recorded"
	PurchaseRejected = "rejected" // validation failure, nothing written
	PurchaseFailed   = "failed"   // rolled back
)

// Outbox relay outcomes
const (
	OutboxPublished = "published"
	OutboxRetrying  = "retrying"
	OutboxFailed    = "failed"
)

// Metrics owns its registry so tests can build as many instances as they like
type Metrics struct {
	registry *prometheus.Registry

	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	Purchases     *prometheus.CounterVec
	PurchaseItems prometheus.Histogram
	PurchaseTotal prometheus.Histogram

	OutboxEvents  *prometheus.CounterVec
	OutboxBacklog *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "method", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		Purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchase submissions by outcome.",
		}, []string{"result"}),
		PurchaseItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "purchase_items",
			Help:      "Number of detail lines per recorded purchase.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100},
		}),
		PurchaseTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "purchase_total_amount_yen",
			Help:      "Total amount of recorded purchases.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
		}),
		OutboxEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events_total",
			Help:      "Outbox relay attempts by event type and outcome.",
		}, []string{"event_type", "result"}),
		OutboxBacklog: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events",
			Help:      "Outbox rows by status.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests, m.LatencyMS,
		m.Purchases, m.PurchaseItems, m.PurchaseTotal,
		m.OutboxEvents, m.OutboxBacklog,
	)
	return m
}

// ObservePurchase records one purchase outcome; items and total only count when recorded
func (m *Metrics) ObservePurchase(result string, items int, totalAmount int64) {
	if m == nil {
		return
	}
	m.Purchases.WithLabelValues(result).Inc()
	if result == PurchaseRecorded {
		m.PurchaseItems.Observe(float64(items))
		m.PurchaseTotal.Observe(float64(totalAmount))
	}
}

func (m *Metrics) ObserveOutbox(eventType, result string) {
	if m == nil {
		return
	}
	m.OutboxEvents.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) SetOutboxBacklog(status string, n int64) {
	if m == nil {
		return
	}
	m.OutboxBacklog.WithLabelValues(status).Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
