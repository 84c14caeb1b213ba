// Package logging provides structured logging utilities for the
// reclaim-mcp-server application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Credential sanitization for API keys
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "tasks.create")
//	logger.Info("task created",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("authenticating",
//	    "api_key", logging.SanitizeToken(key))
//
// API keys and tokens are never logged directly.
package logging
