// Package metrics holds the Prometheus collectors the server exports on /metrics.
//
// Collectors are package-level so any layer can record without threading a
// registry through every constructor. They are only exported once
// RegisterCollectors has been called (main does it with the default registry).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "memories"

var (
	// HTTPRequests counts finished requests. route is the chi route pattern
	// ("/api/memories/{id}"), never the raw path, to keep cardinality bounded.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by method, route and status code."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency by method and route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)

	// BlobOperations counts blob store calls. op is "put" or "delete",
	// result is "ok" or "error".
	BlobOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "blob_operations_total", Help: "Blob store operations by type and result."},
		[]string{"op", "result"},
	)
	// OrphanedBlobs counts images that were uploaded but never referenced
	// because the memory write after them failed.
	OrphanedBlobs = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "orphaned_blobs_total", Help: "Uploaded images left unreferenced after a failed memory write."},
	)
)

// RegisterCollectors registers every collector with reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(BlobOperations)
	reg.MustRegister(OrphanedBlobs)
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
