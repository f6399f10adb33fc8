// Package instrumentation provides comprehensive OpenTelemetry instrumentation
// for the calfewer MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for RPC requests, calendar store operations, and tool calls
//   - Distributed tracing for request flows and store calls
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// RPC Metrics:
//   - rpc_requests_total: Counter of RPC requests by method and status
//   - rpc_request_duration_seconds: Histogram of RPC request durations
//   - active_sessions: Gauge of active client sessions
//
// Calendar Store Metrics:
//   - store_operations_total: Counter of store operations by operation and status
//   - store_operation_duration_seconds: Histogram of store operation durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - Inbound RPC requests (rpc.<method>)
//   - MCP tool invocations (tool.<name>)
//   - Calendar store calls (store.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: calfewer)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "calfewer",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an RPC request
//	recorder.RecordRPCRequest(ctx, "tools/call", "success", time.Since(start))
//
//	// Record a store operation
//	recorder.RecordStoreOperation(ctx, "query_events", "success", time.Since(start))
//
//	// Record an MCP tool invocation
//	recorder.RecordToolInvocationWithCalendar(ctx, "create_event", "success", "Work", time.Since(start))
package instrumentation
