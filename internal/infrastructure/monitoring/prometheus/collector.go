// Package prometheus wraps the Prometheus client behind a small collector
// interface so application code never touches the registry directly and
// tests can substitute no-op metrics.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
)

// MetricsCollector registers metric families and serves the exposition
// endpoint.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

// CounterVec wraps prometheus.CounterVec.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter wraps prometheus.Counter.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec wraps prometheus.GaugeVec.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge wraps prometheus.Gauge.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

// HistogramVec wraps prometheus.HistogramVec.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram wraps prometheus.Histogram.
type Histogram interface {
	Observe(value float64)
}

type collector struct {
	registry   *prometheus.Registry
	namespace  string
	registered map[string]prometheus.Collector
	mu         sync.Mutex
	log        logging.Logger
}

// NewMetricsCollector builds a collector with its own registry, including
// process and Go runtime metrics.
func NewMetricsCollector(namespace string, log logging.Logger) (MetricsCollector, error) {
	if namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())

	return &collector{
		registry:   registry,
		namespace:  namespace,
		registered: make(map[string]prometheus.Collector),
		log:        log.Named("metrics"),
	}, nil
}

// NewNopCollector returns a collector whose metrics go nowhere (for tests).
func NewNopCollector() MetricsCollector {
	return nopCollector{}
}

func (c *collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *collector) register(name string, col prometheus.Collector) (prometheus.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	full := prometheus.BuildFQName(c.namespace, "", name)
	if existing, ok := c.registered[full]; ok {
		return existing, nil
	}
	if err := c.registry.Register(col); err != nil {
		return nil, err
	}
	c.registered[full] = col
	return col, nil
}

func (c *collector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace, Name: name, Help: help,
	}, labels)
	registered, err := c.register(name, vec)
	if err != nil {
		c.log.Error("failed to register counter", logging.String("name", name), logging.Err(err))
		return nopCounterVec{}
	}
	if v, ok := registered.(*prometheus.CounterVec); ok {
		return promCounterVec{vec: v}
	}
	return nopCounterVec{}
}

func (c *collector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace, Name: name, Help: help,
	}, labels)
	registered, err := c.register(name, vec)
	if err != nil {
		c.log.Error("failed to register gauge", logging.String("name", name), logging.Err(err))
		return nopGaugeVec{}
	}
	if v, ok := registered.(*prometheus.GaugeVec); ok {
		return promGaugeVec{vec: v}
	}
	return nopGaugeVec{}
}

func (c *collector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace, Name: name, Help: help, Buckets: buckets,
	}, labels)
	registered, err := c.register(name, vec)
	if err != nil {
		c.log.Error("failed to register histogram", logging.String("name", name), logging.Err(err))
		return nopHistogramVec{}
	}
	if v, ok := registered.(*prometheus.HistogramVec); ok {
		return promHistogramVec{vec: v}
	}
	return nopHistogramVec{}
}

// prometheus-backed wrappers

type promCounterVec struct{ vec *prometheus.CounterVec }

func (v promCounterVec) WithLabelValues(lvs ...string) Counter {
	return v.vec.WithLabelValues(lvs...)
}

type promGaugeVec struct{ vec *prometheus.GaugeVec }

func (v promGaugeVec) WithLabelValues(lvs ...string) Gauge {
	return v.vec.WithLabelValues(lvs...)
}

type promHistogramVec struct{ vec *prometheus.HistogramVec }

func (v promHistogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.vec.WithLabelValues(lvs...)
}

// no-op fallbacks

type nopCollector struct{}

func (nopCollector) RegisterCounter(string, string, ...string) CounterVec { return nopCounterVec{} }
func (nopCollector) RegisterGauge(string, string, ...string) GaugeVec    { return nopGaugeVec{} }
func (nopCollector) RegisterHistogram(string, string, []float64, ...string) HistogramVec {
	return nopHistogramVec{}
}
func (nopCollector) Handler() http.Handler { return http.NotFoundHandler() }

type nopCounterVec struct{}

func (nopCounterVec) WithLabelValues(...string) Counter { return nopCounter{} }

type nopCounter struct{}

func (nopCounter) Inc()        {}
func (nopCounter) Add(float64) {}

type nopGaugeVec struct{}

func (nopGaugeVec) WithLabelValues(...string) Gauge { return nopGauge{} }

type nopGauge struct{}

func (nopGauge) Set(float64) {}
func (nopGauge) Inc()        {}
func (nopGauge) Dec()        {}

type nopHistogramVec struct{}

func (nopHistogramVec) WithLabelValues(...string) Histogram { return nopHistogram{} }

type nopHistogram struct{}

func (nopHistogram) Observe(float64) {}
