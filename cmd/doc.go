// Package cmd implements the command-line interface for reclaim-mcp-server.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing Reclaim.ai task tools
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
