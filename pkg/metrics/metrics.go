// Package metrics exposes the Prometheus registry used by the library client.
// Collectors are registered via promauto in the packages that update them
// (client, library, ratelimit); this package serves them and documents them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is where promauto registers every library collector.
	Registry = prometheus.DefaultRegisterer

	// Gatherer reads back what Registry holds.
	Gatherer = prometheus.DefaultGatherer
)

// Names lists every metric family the module defines.
var Names = []string{
	"library_requests_total",
	"library_request_duration_seconds",
	"library_errors_total",
	"library_rate_limit_remaining",
	"library_rate_limit_blocks_total",
	"library_rate_limit_throttles_total",
	"library_fanout_subrequests_total",
	"library_fanout_duplicates_total",
	"library_fanout_truncations_total",
}

// Handler serves Gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics
//
// Requests (pkg/client):
//   - library_requests_total{endpoint, status} (Counter)
//   - library_request_duration_seconds{endpoint} (Histogram)
//   - library_errors_total{class} (Counter): client, server, rate_limit, network
//
// Rate limit (pkg/ratelimit):
//   - library_rate_limit_remaining (Gauge): last reported X-RateLimit-Remaining
//   - library_rate_limit_blocks_total (Counter): requests refused in the critical band
//   - library_rate_limit_throttles_total (Counter): requests delayed in the warning band
//
// Fan-out (pkg/library):
//   - library_fanout_subrequests_total{resource} (Counter): one per fan-out value
//   - library_fanout_duplicates_total{resource} (Counter): records dropped by the merge
//   - library_fanout_truncations_total{resource} (Counter): sub-queries cut at the page limit
//
// Example queries:
//
//   # Budget running low
//   library_rate_limit_remaining < 20
//
//   # Average sub-requests per fan-out query is visible as
//   rate(library_fanout_subrequests_total[5m])
//
//   # P95 backend latency
//   histogram_quantile(0.95, rate(library_request_duration_seconds_bucket[5m]))
//
//   # Merged results that may be incomplete
//   increase(library_fanout_truncations_total[1h]) > 0
