// Package server implements the HTTP surface of schedbot: the Telegram
// webhook endpoint that feeds the scheduling pipeline, liveness and
// readiness probes, and a dedicated Prometheus metrics server.
//
// The webhook acknowledges every well-formed HTTP request with 200 and a
// JSON status of "ok" or "ignored"; no pipeline failure ever crosses the
// transport boundary as an error response.
package server
