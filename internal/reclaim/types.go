package reclaim

import (
	"encoding/json"
	"fmt"
)

// Task statuses as reported by the service.
const (
	StatusNew        = "NEW"
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusComplete   = "COMPLETE"
	StatusCancelled  = "CANCELLED"
	StatusArchived   = "ARCHIVED"
)

// Event categories a task can belong to.
const (
	CategoryWork     = "WORK"
	CategoryPersonal = "PERSONAL"
)

// Task represents a Reclaim task.
//
// Durations are expressed in the service's native unit: 15-minute chunks.
// TimeChunksRequired is the total, MinChunkSize/MaxChunkSize bound how the
// scheduler may split it. Due and SnoozeUntil are ISO 8601 UTC instants.
type Task struct {
	ID                 int64  `json:"id,omitempty"`
	Title              string `json:"title,omitempty"`
	Notes              string `json:"notes,omitempty"`
	EventCategory      string `json:"eventCategory,omitempty"`
	EventSubType       string `json:"eventSubType,omitempty"`
	EventColor         string `json:"eventColor,omitempty"`
	Status             string `json:"status,omitempty"`
	Priority           string `json:"priority,omitempty"`
	TimeChunksRequired int    `json:"timeChunksRequired,omitempty"`
	TimeChunksSpent    int    `json:"timeChunksSpent,omitempty"`
	MinChunkSize       int    `json:"minChunkSize,omitempty"`
	MaxChunkSize       int    `json:"maxChunkSize,omitempty"`
	AlwaysPrivate      bool   `json:"alwaysPrivate,omitempty"`
	OnDeck             bool   `json:"onDeck,omitempty"`
	Deleted            bool   `json:"deleted,omitempty"`
	Due                string `json:"due,omitempty"`
	SnoozeUntil        string `json:"snoozeUntil,omitempty"`
	Created            string `json:"created,omitempty"`
	Updated            string `json:"updated,omitempty"`
	TimeSchemeID       string `json:"timeSchemeId,omitempty"`
}

// FieldMap is a partial task record keyed by the service's JSON field
// names. Create and patch calls take a FieldMap so that absent fields stay
// absent on the wire, preserving partial-update semantics.
type FieldMap map[string]any

// User is the authenticated account, reduced to the fields the server
// consumes: identity, stored timezone, and task defaults.
type User struct {
	ID       string       `json:"id,omitempty"`
	Email    string       `json:"email,omitempty"`
	Name     string       `json:"name,omitempty"`
	Settings UserSettings `json:"settings"`
	Features UserFeatures `json:"features"`
}

// UserSettings carries account-level preferences.
type UserSettings struct {
	TimeZone TimeZoneSetting `json:"timezone"`
}

// TimeZoneSetting is the account's stored IANA timezone.
type TimeZoneSetting struct {
	ID string `json:"id,omitempty"`
}

// UserFeatures groups per-feature settings; only task settings matter here.
type UserFeatures struct {
	TaskSettings TaskSettings `json:"taskSettings"`
}

// TaskSettings holds the account's task configuration.
type TaskSettings struct {
	Defaults TaskDefaults `json:"defaults"`
}

// TaskDefaults are the account-level fallback values applied to task
// creation when the caller leaves a field unset. Pointer fields distinguish
// "not configured" from zero values.
type TaskDefaults struct {
	EventCategory      string `json:"eventCategory,omitempty"`
	EventSubType       string `json:"eventSubType,omitempty"`
	Priority           string `json:"priority,omitempty"`
	TimeChunksRequired *int   `json:"timeChunksRequired,omitempty"`
	MinChunkSize       *int   `json:"minChunkSize,omitempty"`
	MaxChunkSize       *int   `json:"maxChunkSize,omitempty"`
	DueInDays          *int   `json:"dueInDays,omitempty"`
	AlwaysPrivate      *bool  `json:"alwaysPrivate,omitempty"`
	OnDeck             *bool  `json:"onDeck,omitempty"`
	TimeSchemeID       string `json:"timeSchemeId,omitempty"`
}

// APIError is a non-2xx response from the Reclaim API.
type APIError struct {
	// Op is the operation that failed (e.g. "createTask").
	Op string

	// StatusCode is the HTTP status returned by the service.
	StatusCode int

	// Message is the service's human-readable message, when present.
	Message string

	// Detail is any structured error detail the service included.
	Detail json.RawMessage
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("reclaim %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("reclaim %s: status %d", e.Op, e.StatusCode)
}
