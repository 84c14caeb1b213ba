// Package common provides shared utilities for MCP tool implementations.
// It wraps tool handlers with metrics, tracing, and structured logging so
// every tool package reports invocations the same way.
package common
