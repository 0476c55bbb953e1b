package prometheus

import (
	"strconv"
	"time"
)

// ParserMetrics holds every metric the service records.
type ParserMetrics struct {
	// Parsing
	ParseTotal       CounterVec
	ParseDuration    HistogramVec
	AtomsPerMolecule HistogramVec
	BatchSize        HistogramVec

	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// gRPC Layer
	GRPCRequestsTotal   CounterVec
	GRPCRequestDuration HistogramVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Worker
	WorkerMessagesTotal   CounterVec
	WorkerProcessDuration HistogramVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultParseDurationBuckets = []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1}
	DefaultAtomCountBuckets     = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
	DefaultBatchSizeBuckets     = []float64{1, 10, 50, 100, 250, 500, 1000}
)

// Parse result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// NewParserMetrics registers all metrics on collector.
func NewParserMetrics(collector MetricsCollector) *ParserMetrics {
	m := &ParserMetrics{}

	m.ParseTotal = collector.RegisterCounter("parse_total", "SMILES parse attempts by result and error kind", "result", "kind")
	m.ParseDuration = collector.RegisterHistogram("parse_duration_seconds", "SMILES parse duration", DefaultParseDurationBuckets, "result")
	m.AtomsPerMolecule = collector.RegisterHistogram("atoms_per_molecule", "Atoms in successfully parsed molecules", DefaultAtomCountBuckets)
	m.BatchSize = collector.RegisterHistogram("batch_size", "Items per batch request", DefaultBatchSizeBuckets, "source")

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	m.GRPCRequestsTotal = collector.RegisterCounter("grpc_requests_total", "Total gRPC requests", "service", "method", "code")
	m.GRPCRequestDuration = collector.RegisterHistogram("grpc_request_duration_seconds", "gRPC request duration", DefaultHTTPDurationBuckets, "service", "method")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	m.WorkerMessagesTotal = collector.RegisterCounter("worker_messages_total", "Messages handled by the batch worker", "topic", "outcome")
	m.WorkerProcessDuration = collector.RegisterHistogram("worker_process_duration_seconds", "Worker message processing duration", DefaultHTTPDurationBuckets, "topic")

	return m
}

// NewNoopParserMetrics returns metrics that record nothing.
func NewNoopParserMetrics() *ParserMetrics {
	return NewParserMetrics(NewNoopCollector())
}

// Helpers

// RecordParse records one parse.  kind is the error kind name, empty on
// success.
func RecordParse(metrics *ParserMetrics, kind string, atoms int, duration time.Duration) {
	result := ResultSuccess
	if kind != "" {
		result = ResultFailure
	}
	metrics.ParseTotal.WithLabelValues(result, kind).Inc()
	metrics.ParseDuration.WithLabelValues(result).Observe(duration.Seconds())
	if kind == "" {
		metrics.AtomsPerMolecule.WithLabelValues().Observe(float64(atoms))
	}
}

func RecordHTTPRequest(metrics *ParserMetrics, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordGRPCRequest(metrics *ParserMetrics, service, method, code string, duration time.Duration) {
	metrics.GRPCRequestsTotal.WithLabelValues(service, method, code).Inc()
	metrics.GRPCRequestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

func RecordCacheAccess(metrics *ParserMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordWorkerMessage records one consumed message.  outcome is one of
// "processed", "retried" or "dead_lettered".
func RecordWorkerMessage(metrics *ParserMetrics, topic, outcome string, duration time.Duration) {
	metrics.WorkerMessagesTotal.WithLabelValues(topic, outcome).Inc()
	metrics.WorkerProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

//Personal.AI order the ending
