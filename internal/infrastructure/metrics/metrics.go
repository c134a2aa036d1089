package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/agroledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EntriesAppended *prometheus.CounterVec
	EntryAmount     *prometheus.HistogramVec
	AppendConflicts prometheus.Counter
	Corruptions     prometheus.Counter

	// Lending metrics
	InterestPostedTotal prometheus.Counter
	LoansOverdue        prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all Prometheus metrics and registers them with reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		EntriesAppended: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agroledger_entries_appended_total",
				Help: "Total ledger entries appended by transaction type",
			},
			[]string{"type"},
		),
		EntryAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agroledger_entry_amount",
				Help:    "Ledger entry amounts",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"type"},
		),
		AppendConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "agroledger_append_conflicts_total",
			Help: "Appends rejected because another append held the party",
		}),
		Corruptions: factory.NewCounter(prometheus.CounterOpts{
			Name: "agroledger_ledger_corruptions_total",
			Help: "Running balance mismatches detected",
		}),

		InterestPostedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "agroledger_interest_posted_amount_total",
			Help: "Total interest amount posted to ledgers",
		}),
		LoansOverdue: factory.NewCounter(prometheus.CounterOpts{
			Name: "agroledger_loans_marked_overdue_total",
			Help: "Total loans moved to OVERDUE",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agroledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agroledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agroledger_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
	}
}

// EntryAppended implements usecase.MetricsRecorder.
func (m *Metrics) EntryAppended(txType domain.TransactionType, amount decimal.Decimal) {
	m.EntriesAppended.WithLabelValues(string(txType)).Inc()
	m.EntryAmount.WithLabelValues(string(txType)).Observe(amount.InexactFloat64())
}

func (m *Metrics) AppendConflict() {
	m.AppendConflicts.Inc()
}

func (m *Metrics) CorruptionDetected() {
	m.Corruptions.Inc()
}

func (m *Metrics) InterestPosted(amount decimal.Decimal) {
	m.InterestPostedTotal.Add(amount.InexactFloat64())
}

func (m *Metrics) LoansMarkedOverdue(n int) {
	m.LoansOverdue.Add(float64(n))
}
