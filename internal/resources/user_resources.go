package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/server"
)

// RegisterUserResources registers resources describing the authenticated
// Reclaim account.
func RegisterUserResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Register user profile resource
	profileResource := mcp.NewResource(
		"reclaim://user",
		"Current User Profile",
		mcp.WithResourceDescription("Profile and timezone of the authenticated Reclaim account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(profileResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleUserProfile(ctx, request, sc)
	})

	// Register task defaults resource
	defaultsResource := mcp.NewResource(
		"reclaim://defaults",
		"Task Defaults",
		mcp.WithResourceDescription("Account-level task scheduling defaults applied on task creation"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(defaultsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleTaskDefaults(ctx, request, sc)
	})

	return nil
}

// handleUserProfile returns the authenticated user's identity and timezone.
func handleUserProfile(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	user, err := sc.Account(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	profileData := map[string]interface{}{
		"id":       user.ID,
		"email":    user.Email,
		"name":     user.Name,
		"timezone": user.Settings.TimeZone.ID,
	}

	jsonData, err := json.MarshalIndent(profileData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleTaskDefaults returns the account's task scheduling defaults.
func handleTaskDefaults(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	if _, err := sc.Account(ctx); err != nil {
		return nil, fmt.Errorf("failed to get task defaults: %w", err)
	}

	jsonData, err := json.MarshalIndent(sc.TaskDefaults(ctx), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task defaults: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
