// Package server provides the MCP server context and the dedicated
// metrics/health HTTP endpoints for the calfewer application.
//
// # Key Components
//
// ServerContext owns the shared dependencies of a serving session: the
// rate-gated calendar store, the availability engine, the mutation gateway,
// and the calendar filter defaults. All tool handlers reach these through
// the context, and Shutdown tears them down once.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from the stdio RPC traffic. Every metrics server also mounts a
// HealthChecker: /healthz only proves the process is alive, while /readyz
// additionally probes the calendar store through the server context and
// reports the shutdown state.
package server
