// Package server provides the MCP server context, health endpoints, and
// the dedicated metrics server for the reclaim-mcp-server application.
//
// # Key Components
//
// ServerContext holds the Reclaim API client and the process-lifetime
// account cache. The account (timezone, task defaults) is fetched from
// the Reclaim API at most once; concurrent callers share a single fetch
// and a failed fetch is cached rather than retried, so tools degrade to
// built-in defaults instead of hammering the API.
//
// HealthChecker exposes Kubernetes-style probes:
//   - /healthz: liveness (process is running)
//   - /readyz: readiness (accepting traffic, account cache state)
//   - /healthz/detailed: uptime and status
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from MCP traffic.
package server
