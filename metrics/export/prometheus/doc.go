// Package prometheus renders the session core's metrics for Prometheus.
//
// [NewPrometheusExporter] accepts an [ihdrs.Manager] and exposes an
// [http.Handler] that renders all counters and histograms in Prometheus text
// exposition format. Counter names are prefixed ihdrs_*_total; the single
// histogram is ihdrs_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate session state.
package prometheus
