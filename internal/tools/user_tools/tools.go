package user_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/server"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/tools/common"
)

// RegisterUserTools registers Reclaim user/account tools with the MCP server.
// All user tools are read-only.
func RegisterUserTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	currentUserTool := mcp.NewTool("reclaim_current_user",
		mcp.WithDescription("Get the authenticated Reclaim user's profile, timezone, and task scheduling defaults"),
	)

	s.AddTool(currentUserTool, common.InstrumentedToolHandlerWithService("reclaim_current_user", "users", "current", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			user, err := sc.Account(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get current user: %v", err)), nil
			}

			result, _ := json.MarshalIndent(user, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	defaultsTool := mcp.NewTool("reclaim_task_defaults",
		mcp.WithDescription("Get the account's task scheduling defaults (duration chunks, due-in-days, visibility)"),
	)

	s.AddTool(defaultsTool, common.InstrumentedToolHandlerWithService("reclaim_task_defaults", "users", "defaults", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if _, err := sc.Account(ctx); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get task defaults: %v", err)), nil
			}

			result, _ := json.MarshalIndent(sc.TaskDefaults(ctx), "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	return nil
}
