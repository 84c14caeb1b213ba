package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/instrumentation"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/logging"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/server"
)

// toolLogger receives the per-invocation debug records emitted by the
// instrumented handlers. It defaults to the process slog logger.
var toolLogger logging.Logger = logging.DefaultLogger()

// SetLogger replaces the logger used by the instrumented handlers. A nil
// logger is ignored.
func SetLogger(l logging.Logger) {
	if l != nil {
		toolLogger = l
	}
}

// InstrumentedToolHandler wraps a tool handler with metrics, tracing, and
// structured logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()

		// If no instrumentation configured, just call the handler
		if metrics == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		spanCtx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		// Call the actual handler
		result, err := handler(spanCtx, request)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordToolInvocation(ctx, toolName, status, duration)

		toolLogger.Debug("tool invocation",
			logging.Tool(toolName),
			logging.Status(status),
			slog.Duration(logging.KeyDuration, duration),
			logging.Err(err),
		)

		return result, err
	}
}

// InstrumentedToolHandlerWithService is like InstrumentedToolHandler but also
// records the Reclaim API surface and operation type for more detailed metrics.
//
// This handler records both:
// - MCP tool invocation metrics (mcp_tool_invocations_total, mcp_tool_duration_seconds)
// - Reclaim API operation metrics (reclaim_api_operations_total, reclaim_api_operation_duration_seconds)
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("my_tool", "tasks", "list", sc, handler))
func InstrumentedToolHandlerWithService(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()

		// If no instrumentation configured, just call the handler
		if metrics == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		spanCtx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithService(serviceName).
				WithOperation(operation).
				Build()...,
		)
		defer span.End()

		// Call the actual handler
		result, err := handler(spanCtx, request)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		// Record MCP tool invocation metrics
		metrics.RecordToolInvocation(ctx, toolName, status, duration)

		// Record Reclaim API operation metrics for service-level observability
		metrics.RecordAPIOperation(ctx, serviceName, operation, status, duration)

		toolLogger.Debug("tool invocation",
			logging.Tool(toolName),
			logging.Service(serviceName),
			logging.Operation(operation),
			logging.Status(status),
			slog.Duration(logging.KeyDuration, duration),
			logging.Err(err),
		)

		return result, err
	}
}
