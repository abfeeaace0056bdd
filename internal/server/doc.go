// Package server provides the HTTP plumbing around the web UI: health and
// readiness endpoints, the web server lifecycle, and a dedicated Prometheus
// metrics server.
//
// # Health Endpoints
//
//   - /healthz: liveness, always ok while the process runs
//   - /readyz: readiness, runs the registered checks (e.g. spreadsheet reachable)
//   - /healthz/detailed: readiness plus uptime
//
// # Metrics
//
// When enabled, MetricsServer exposes /metrics on its own address so that
// operational data is not reachable through the public UI port.
package server
