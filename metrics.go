package gowindow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	strategyOffset = "offset"
	strategyCursor = "cursor"
)

// Metrics collects pagination metrics of the Fetch helpers.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// pages counts served pages.
	// Labels: strategy (offset, cursor), page_range (1-10, 11-50, ... for
	// offset; first, next for cursor).
	pages *prometheus.CounterVec
	// rows tracks how many rows a page returned to the client.
	rows *prometheus.HistogramVec
	// errors counts failures by stage (count, fetch, envelope).
	errors *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg creates unregistered
// collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		pages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowindow_pages_total",
				Help: "Total number of served pages",
			},
			[]string{"strategy", "page_range"},
		),
		rows: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowindow_rows_fetched",
				Help:    "Number of rows returned per page",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
			},
			[]string{"strategy"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowindow_errors_total",
				Help: "Total number of pagination errors",
			},
			[]string{"strategy", "stage"},
		),
	}
}

func (m *Metrics) observePage(strategy, pageRange string, rows int) {
	if m == nil {
		return
	}

	m.pages.WithLabelValues(strategy, pageRange).Inc()
	m.rows.WithLabelValues(strategy).Observe(float64(rows))
}

func (m *Metrics) observeError(strategy, stage string) {
	if m == nil {
		return
	}

	m.errors.WithLabelValues(strategy, stage).Inc()
}

// pageRangeBucket returns the page range bucket for a given page number.
func pageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
