package reclaim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production Reclaim API endpoint.
const DefaultBaseURL = "https://api.app.reclaim.ai/api"

const defaultTimeout = 30 * time.Second

// Client wraps the Reclaim REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Reclaim client authenticated with the given API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("reclaim API key cannot be empty; set RECLAIM_API_KEY or pass --api-key")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do issues a request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("reclaim %s: failed to encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("reclaim %s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reclaim %s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("reclaim %s: failed to decode response: %w", op, err)
	}
	return nil
}

// newAPIError builds an *APIError from an error response, pulling the
// message out of the service's error envelope when one is present.
func newAPIError(op string, resp *http.Response) *APIError {
	apiErr := &APIError{Op: op, StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var envelope struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.Message = envelope.Message
		if apiErr.Message == "" {
			apiErr.Message = envelope.Error
		}
		apiErr.Detail = envelope.Detail
	}
	if apiErr.Message == "" {
		apiErr.Detail = json.RawMessage(raw)
	}
	return apiErr
}

// CreateTask creates a task from an already-normalized field map.
func (c *Client) CreateTask(ctx context.Context, fields FieldMap) (*Task, error) {
	var task Task
	if err := c.do(ctx, "createTask", http.MethodPost, "/tasks", nil, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by ID.
func (c *Client) GetTask(ctx context.Context, taskID int64) (*Task, error) {
	var task Task
	path := "/tasks/" + strconv.FormatInt(taskID, 10)
	if err := c.do(ctx, "getTask", http.MethodGet, path, nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks lists tasks, optionally filtered by status (comma-separated
// status values, e.g. "NEW,SCHEDULED,IN_PROGRESS").
func (c *Client) ListTasks(ctx context.Context, status string) ([]Task, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}

	var tasks []Task
	if err := c.do(ctx, "listTasks", http.MethodGet, "/tasks", query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies a partial update to a task. Only the fields present in
// the map are sent, preserving partial-update semantics.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, fields FieldMap) (*Task, error) {
	var task Task
	path := "/tasks/" + strconv.FormatInt(taskID, 10)
	if err := c.do(ctx, "updateTask", http.MethodPatch, path, nil, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	path := "/tasks/" + strconv.FormatInt(taskID, 10)
	return c.do(ctx, "deleteTask", http.MethodDelete, path, nil, nil, nil)
}

// MarkDone marks a task complete through the planner.
func (c *Client) MarkDone(ctx context.Context, taskID int64) (*Task, error) {
	var result struct {
		TaskOrHabit *Task `json:"taskOrHabit"`
	}
	path := "/planner/done/task/" + strconv.FormatInt(taskID, 10)
	if err := c.do(ctx, "markDone", http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	if result.TaskOrHabit == nil {
		return c.GetTask(ctx, taskID)
	}
	return result.TaskOrHabit, nil
}

// MarkIncomplete reopens a completed or archived task.
func (c *Client) MarkIncomplete(ctx context.Context, taskID int64) (*Task, error) {
	var result struct {
		TaskOrHabit *Task `json:"taskOrHabit"`
	}
	path := "/planner/unarchive/task/" + strconv.FormatInt(taskID, 10)
	if err := c.do(ctx, "markIncomplete", http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	if result.TaskOrHabit == nil {
		return c.GetTask(ctx, taskID)
	}
	return result.TaskOrHabit, nil
}

// AddTime adds scheduled time to a task. Minutes must already be validated
// as a whole number of chunks by the normalizer.
func (c *Client) AddTime(ctx context.Context, taskID int64, minutes int) (*Task, error) {
	query := url.Values{"minutes": {strconv.Itoa(minutes)}}
	path := "/planner/add-time/task/" + strconv.FormatInt(taskID, 10)

	var result struct {
		TaskOrHabit *Task `json:"taskOrHabit"`
	}
	if err := c.do(ctx, "addTime", http.MethodPost, path, query, nil, &result); err != nil {
		return nil, err
	}
	if result.TaskOrHabit == nil {
		return c.GetTask(ctx, taskID)
	}
	return result.TaskOrHabit, nil
}

// CurrentUser fetches the authenticated account, including its stored
// timezone and task defaults.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, "currentUser", http.MethodGet, "/users/current", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
