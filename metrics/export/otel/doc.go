// Package otel bridges guildperm engine metrics into OpenTelemetry
// observable instruments. The exporter registers one collection callback and
// reads snapshots on demand; it holds no state of its own.
package otel
