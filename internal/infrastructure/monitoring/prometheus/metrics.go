package prometheus

// AppMetrics holds every metric family the platform emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Comparison engine
	ComparisonsTotal   CounterVec
	ComparisonDuration HistogramVec
	ClausesSegmented   CounterVec
	AlignmentRetries   CounterVec
	DifferencesFound   CounterVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Export
	ExportsTotal   CounterVec
	ExportDuration HistogramVec

	// Messaging
	EventsPublished CounterVec
	EventsConsumed  CounterVec
}

var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultEngineDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
)

// NewAppMetrics registers all metric families on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.ComparisonsTotal = collector.RegisterCounter("comparisons_total", "Comparisons run", "scorer", "status")
	m.ComparisonDuration = collector.RegisterHistogram("comparison_duration_seconds", "End-to-end comparison duration", DefaultEngineDurationBuckets, "scorer")
	m.ClausesSegmented = collector.RegisterCounter("clauses_segmented_total", "Clauses produced by segmentation")
	m.AlignmentRetries = collector.RegisterCounter("alignment_retries_total", "Alignment retries after timeout")
	m.DifferencesFound = collector.RegisterCounter("differences_found_total", "Differences classified", "type", "severity")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Comparison cache hits")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Comparison cache misses")

	m.ExportsTotal = collector.RegisterCounter("exports_total", "Export requests", "format", "status")
	m.ExportDuration = collector.RegisterHistogram("export_duration_seconds", "Export rendering duration", DefaultEngineDurationBuckets, "format")

	m.EventsPublished = collector.RegisterCounter("events_published_total", "Kafka events published", "topic")
	m.EventsConsumed = collector.RegisterCounter("events_consumed_total", "Kafka events consumed", "topic", "status")

	return m
}
