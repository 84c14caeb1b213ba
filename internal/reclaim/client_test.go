package reclaim

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestCreateTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header: %s", got)
		}

		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if fields["title"] != "Write report" {
			t.Errorf("unexpected title: %v", fields["title"])
		}
		if _, present := fields["due"]; present {
			t.Error("absent fields must not appear on the wire")
		}

		_ = json.NewEncoder(w).Encode(Task{ID: 42, Title: "Write report", Status: StatusNew})
	})

	task, err := client.CreateTask(context.Background(), FieldMap{
		"title":              "Write report",
		"timeChunksRequired": 4,
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if task.ID != 42 {
		t.Errorf("expected task ID 42, got %d", task.ID)
	}
}

func TestGetTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/7" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Task{ID: 7, Title: "Review PR"})
	})

	task, err := client.GetTask(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if task.Title != "Review PR" {
		t.Errorf("unexpected title: %s", task.Title)
	}
}

func TestListTasksStatusFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "NEW,SCHEDULED" {
			t.Errorf("unexpected status filter: %s", got)
		}
		_ = json.NewEncoder(w).Encode([]Task{{ID: 1}, {ID: 2}})
	})

	tasks, err := client.ListTasks(context.Background(), "NEW,SCHEDULED")
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(tasks))
	}
}

func TestUpdateTaskSendsOnlyGivenFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		var fields map[string]any
		_ = json.NewDecoder(r.Body).Decode(&fields)
		if len(fields) != 1 {
			t.Errorf("expected exactly one field, got %v", fields)
		}
		_ = json.NewEncoder(w).Encode(Task{ID: 9, SnoozeUntil: fields["snoozeUntil"].(string)})
	})

	task, err := client.UpdateTask(context.Background(), 9, FieldMap{
		"snoozeUntil": "2026-01-06T16:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}
	if task.SnoozeUntil != "2026-01-06T16:00:00.000Z" {
		t.Errorf("unexpected snoozeUntil: %s", task.SnoozeUntil)
	}
}

func TestMarkDoneUnwrapsPlannerEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/planner/done/task/5" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"taskOrHabit": Task{ID: 5, Status: StatusArchived},
		})
	})

	task, err := client.MarkDone(context.Background(), 5)
	if err != nil {
		t.Fatalf("MarkDone returned error: %v", err)
	}
	if task.Status != StatusArchived {
		t.Errorf("unexpected status: %s", task.Status)
	}
}

func TestAddTimePassesMinutes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("minutes"); got != "30" {
			t.Errorf("unexpected minutes: %s", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"taskOrHabit": Task{ID: 3, TimeChunksRequired: 6},
		})
	})

	task, err := client.AddTime(context.Background(), 3, 30)
	if err != nil {
		t.Fatalf("AddTime returned error: %v", err)
	}
	if task.TimeChunksRequired != 6 {
		t.Errorf("unexpected chunk count: %d", task.TimeChunksRequired)
	}
}

func TestCurrentUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/current" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"email": "dev@example.com",
			"settings": {"timezone": {"id": "America/Los_Angeles"}},
			"features": {"taskSettings": {"defaults": {
				"eventCategory": "WORK",
				"timeChunksRequired": 4,
				"minChunkSize": 1,
				"maxChunkSize": 4,
				"dueInDays": 7
			}}}
		}`))
	})

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.Settings.TimeZone.ID != "America/Los_Angeles" {
		t.Errorf("unexpected timezone: %s", user.Settings.TimeZone.ID)
	}
	defaults := user.Features.TaskSettings.Defaults
	if defaults.DueInDays == nil || *defaults.DueInDays != 7 {
		t.Errorf("unexpected dueInDays: %v", defaults.DueInDays)
	}
}

func TestAPIErrorCarriesStatusAndMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "task not found", "detail": {"id": 99}}`))
	})

	_, err := client.GetTask(context.Background(), 99)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected status code: %d", apiErr.StatusCode)
	}
	if apiErr.Message != "task not found" {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
	if len(apiErr.Detail) == 0 {
		t.Error("expected structured detail")
	}
}
