// Package otel provides OpenTelemetry metric bindings for the session core's
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// counter and Int64ObservableGauge per histogram bucket. A single callback
// reads [ihdrs.Manager.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate session state.
package otel
