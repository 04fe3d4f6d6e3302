package prometheus

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector("", nil)
	require.Error(t, err)
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollector_CounterExposition(t *testing.T) {
	c, err := NewMetricsCollector("lexcompare", nil)
	require.NoError(t, err)

	counter := c.RegisterCounter("comparisons_total", "Total comparisons run.", "status")
	counter.WithLabelValues("success").Inc()
	counter.WithLabelValues("success").Add(2)
	counter.WithLabelValues("failure").Inc()

	body := scrape(t, c)
	assert.Contains(t, body, `lexcompare_comparisons_total{status="success"} 3`)
	assert.Contains(t, body, `lexcompare_comparisons_total{status="failure"} 1`)
}

func TestCollector_GaugeExposition(t *testing.T) {
	c, err := NewMetricsCollector("lexcompare", nil)
	require.NoError(t, err)

	gauge := c.RegisterGauge("active_requests", "In-flight HTTP requests.")
	g := gauge.WithLabelValues()
	g.Inc()
	g.Inc()
	g.Dec()
	g.Set(7)

	body := scrape(t, c)
	assert.Contains(t, body, "lexcompare_active_requests 7")
}

func TestCollector_HistogramExposition(t *testing.T) {
	c, err := NewMetricsCollector("lexcompare", nil)
	require.NoError(t, err)

	hist := c.RegisterHistogram("comparison_duration_seconds", "Comparison wall time.", []float64{0.1, 1, 10}, "scorer")
	hist.WithLabelValues("lexical").Observe(0.5)
	hist.WithLabelValues("lexical").Observe(5)

	body := scrape(t, c)
	assert.Contains(t, body, `lexcompare_comparison_duration_seconds_count{scorer="lexical"} 2`)
	assert.Contains(t, body, `lexcompare_comparison_duration_seconds_bucket{scorer="lexical"`)
}

func TestCollector_DuplicateRegistrationReturnsExisting(t *testing.T) {
	c, err := NewMetricsCollector("lexcompare", nil)
	require.NoError(t, err)

	first := c.RegisterCounter("events_total", "Events.", "type")
	second := c.RegisterCounter("events_total", "Events.", "type")

	first.WithLabelValues("a").Inc()
	second.WithLabelValues("a").Inc()

	body := scrape(t, c)
	// Both handles feed the same underlying series.
	assert.Contains(t, body, `lexcompare_events_total{type="a"} 2`)
	assert.Equal(t, 1, strings.Count(body, "# HELP lexcompare_events_total"))
}

func TestCollector_RuntimeMetricsPresent(t *testing.T) {
	c, err := NewMetricsCollector("lexcompare", nil)
	require.NoError(t, err)

	body := scrape(t, c)
	assert.Contains(t, body, "go_goroutines")
}

func TestNopCollector(t *testing.T) {
	c := NewNopCollector()

	// Everything is callable and inert.
	c.RegisterCounter("x", "").WithLabelValues("a").Inc()
	c.RegisterGauge("y", "").WithLabelValues().Set(1)
	c.RegisterHistogram("z", "", nil).WithLabelValues().Observe(1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestNewAppMetrics(t *testing.T) {
	c, err := NewMetricsCollector("lexcompare", nil)
	require.NoError(t, err)

	m := NewAppMetrics(c)
	require.NotNil(t, m)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/documents", "200").Inc()
	m.ComparisonsTotal.WithLabelValues("lexical", "success").Inc()
	m.CacheHitsTotal.WithLabelValues().Inc()

	body := scrape(t, c)
	assert.Contains(t, body, "lexcompare_http_requests_total")
	assert.Contains(t, body, "lexcompare_comparisons_total")
}
