// Package internaldefs holds the metric name and bucket definitions shared
// by the exporter implementations.
//
// Counter and histogram definitions live here so the Prometheus and OTel
// exporters always emit identical metric names and bucket boundaries.
//
// # What this package must NOT do
//
//   - Perform I/O.
//   - Import an exporter package.
package internaldefs
