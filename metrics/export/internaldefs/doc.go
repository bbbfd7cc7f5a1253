// Package internaldefs carries the shared metric name/help tables used by
// the exporter packages. It exists so the Prometheus and OTel exporters
// render identical metric names without importing each other.
package internaldefs
