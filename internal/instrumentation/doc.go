// Package instrumentation provides OpenTelemetry metrics and tracing for
// schedbot.
//
// Metrics are exported through a Prometheus reader and served by the
// dedicated metrics server. Tracing is off by default and can be pointed at
// an OTLP-HTTP collector or stdout for debugging. The Metrics recorder is
// nil-safe: a zero value records nothing, so instrumentation can be disabled
// without touching call sites.
package instrumentation
