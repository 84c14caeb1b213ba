// Package user_tools provides MCP tools for the authenticated Reclaim
// account: the user profile with its timezone, and the task scheduling
// defaults applied when creating tasks. Account data is fetched once per
// process and cached.
package user_tools
