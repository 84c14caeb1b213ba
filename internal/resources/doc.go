// Package resources provides MCP resources for exposing account data.
// Resources are read-only data sources that MCP clients can fetch, such as
// the authenticated user's profile, timezone, and task scheduling defaults.
package resources
