// Package reclaim provides a client for the Reclaim.ai REST API.
//
// The client wraps the task endpoints (create, get, list, update, delete)
// and the planner actions layered on top of them (mark done, mark
// incomplete, add time), plus the current-user endpoint that supplies the
// account's stored timezone and task defaults.
//
// # Authentication
//
// Reclaim authenticates with a personal API key sent as a bearer token.
// Keys are created in the Reclaim web app under Settings > Developer and
// are typically supplied through the RECLAIM_API_KEY environment variable.
//
// # Errors
//
// Non-2xx responses are returned as *APIError carrying the HTTP status
// code, the service's message, and any structured detail the service
// included. Transport retry policy is deliberately out of scope; callers
// own their request lifecycle via the context they pass in.
package reclaim
