// Package metric provides Prometheus metrics for the awareness server.
//
//   - prometheus.go: Registry with the session, token and HTTP families,
//     implementing the service's event recorder
//   - collector.go: Collector reporting the live session count at scrape time
//
// Metrics are exposed at /metrics in Prometheus text format. The Registry
// owns its own prometheus.Registry, so tests can create as many as they like.
package metric
