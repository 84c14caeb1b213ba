// Package task_tools provides MCP tools for Reclaim task management.
//
// Tools cover the full task lifecycle: creation (with account-default
// filling and duration normalization), partial updates, listing and
// retrieval, completion and reopening, deletion, snoozing, and logging
// extra time. Mutating tools are withheld when the server runs in
// read-only mode.
//
// All date/time parameters accept offset-less local expressions; they
// are resolved against the per-call timezone, the configured fallback,
// or the account timezone, in that order.
package task_tools
