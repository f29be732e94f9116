package gowindow

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func Test_pageRangeBucket(t *testing.T) {
	tests := []struct {
		page int
		want string
	}{
		{1, "1-10"},
		{10, "1-10"},
		{11, "11-50"},
		{50, "11-50"},
		{51, "51-100"},
		{100, "51-100"},
		{101, "100+"},
		{100000, "100+"},
	}

	for _, tt := range tests {
		if got := pageRangeBucket(tt.page); got != tt.want {
			t.Errorf("pageRangeBucket(%d) = %s, want %s", tt.page, got, tt.want)
		}
	}
}

func Test_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.observePage(strategyOffset, "1-10", 20)
	m.observePage(strategyOffset, "1-10", 3)
	m.observePage(strategyCursor, "first", 0)
	m.observeError(strategyCursor, "fetch")

	require.Equal(t, float64(2), testutil.ToFloat64(m.pages.WithLabelValues(strategyOffset, "1-10")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.pages.WithLabelValues(strategyCursor, "first")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.errors.WithLabelValues(strategyCursor, "fetch")))

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP gowindow_pages_total Total number of served pages
# TYPE gowindow_pages_total counter
gowindow_pages_total{page_range="1-10",strategy="offset"} 2
gowindow_pages_total{page_range="first",strategy="cursor"} 1
`), "gowindow_pages_total")
	require.NoError(t, err)

	require.Equal(t, 2, testutil.CollectAndCount(m.rows))
}

func Test_Metrics_Nil(t *testing.T) {
	var m *Metrics

	require.NotPanics(t, func() {
		m.observePage(strategyOffset, "1-10", 1)
		m.observeError(strategyOffset, "count")
	})
}

func Test_NewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	require.Panics(t, func() { NewMetrics(reg) })
}
