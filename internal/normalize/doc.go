// Package normalize converts caller-supplied task fields into the field map
// the Reclaim API expects.
//
// Reclaim schedules tasks in fixed 15-minute chunks. Callers may express
// durations either as chunk counts or in minutes; minute values must divide
// exactly into chunks and are never rounded. The normalizer also merges
// account-level defaults into creation requests (never into updates, which
// keep partial-update semantics), repairs inconsistent chunk bounds, routes
// every date/time-valued field through the localtime resolver, and
// canonicalizes enumerated fields (category, sub-type, priority, color)
// through static alias tables.
//
// Normalization is all-or-nothing: a field set either normalizes completely
// before any API call is made, or the whole operation fails.
package normalize
