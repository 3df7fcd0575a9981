package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kiosk"

// Metrics groups the kiosk collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	ItemsAdded            *prometheus.CounterVec
	UnknownBarcodes       prometheus.Counter
	ScannerActive         prometheus.Gauge
	TransactionsCompleted *prometheus.CounterVec
	PaymentsFailed        *prometheus.CounterVec
	ReceiptsPrinted       *prometheus.CounterVec
	CartTotal             prometheus.Histogram
}

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		ItemsAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "items_added_total",
				Help:      "Items appended to the cart, by acquisition source",
			},
			[]string{"source"},
		),
		UnknownBarcodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_barcodes_total",
			Help:      "Barcodes read that are not in the catalog",
		}),
		ScannerActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scanner_active",
			Help:      "1 while the continuous scan worker is running",
		}),
		TransactionsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_completed_total",
				Help:      "Transactions that reached the complete screen, by payment method",
			},
			[]string{"method"},
		),
		PaymentsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_failed_total",
				Help:      "Declined electronic payments, by payment method",
			},
			[]string{"method"},
		),
		ReceiptsPrinted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "receipts_printed_total",
				Help:      "Receipts rendered, by delivery outcome",
			},
			[]string{"outcome"},
		),
		CartTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_total_due",
			Help:      "Total due of completed transactions",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
			m.ItemsAdded,
			m.UnknownBarcodes,
			m.ScannerActive,
			m.TransactionsCompleted,
			m.PaymentsFailed,
			m.ReceiptsPrinted,
			m.CartTotal,
		)
	}
	return m
}

func (m *Metrics) ObserveRequest(method, path string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(path).Observe(took.Seconds())
}

func (m *Metrics) ItemAdded(source string) {
	if m == nil {
		return
	}
	m.ItemsAdded.WithLabelValues(source).Inc()
}

func (m *Metrics) UnknownBarcode() {
	if m == nil {
		return
	}
	m.UnknownBarcodes.Inc()
}

func (m *Metrics) SetScannerActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.ScannerActive.Set(1)
		return
	}
	m.ScannerActive.Set(0)
}

func (m *Metrics) TransactionCompleted(method string, totalDue float64) {
	if m == nil {
		return
	}
	m.TransactionsCompleted.WithLabelValues(method).Inc()
	m.CartTotal.Observe(totalDue)
}

func (m *Metrics) PaymentFailed(method string) {
	if m == nil {
		return
	}
	m.PaymentsFailed.WithLabelValues(method).Inc()
}

func (m *Metrics) ReceiptPrinted(delivered bool) {
	if m == nil {
		return
	}
	outcome := "delivered"
	if !delivered {
		outcome = "failed"
	}
	m.ReceiptsPrinted.WithLabelValues(outcome).Inc()
}
