package task_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/normalize"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/server"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/tools/batch"
	"github.com/erikmackinnon/reclaim-mcp-server/internal/tools/common"
)

// optString extracts an optional string argument, "" when absent.
func optString(args map[string]interface{}, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return ""
}

// optInt extracts an optional integer argument. JSON numbers arrive as
// float64; numeric strings are accepted too.
func optInt(args map[string]interface{}, name string) *int {
	switch v := args[name].(type) {
	case float64:
		i := int(v)
		return &i
	case string:
		if v == "" {
			return nil
		}
		if i, err := strconv.Atoi(v); err == nil {
			return &i
		}
	}
	return nil
}

// optBool extracts an optional boolean argument.
func optBool(args map[string]interface{}, name string) *bool {
	if v, ok := args[name].(bool); ok {
		return &v
	}
	return nil
}

// getTaskID extracts the required taskId argument.
func getTaskID(args map[string]interface{}) (int64, error) {
	ids, err := batch.ParseTaskIDs(args["taskId"], "taskId")
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("taskId must be a single task ID")
	}
	return ids[0], nil
}

// buildRawTask maps tool arguments onto the normalizer input.
func buildRawTask(args map[string]interface{}) normalize.RawTask {
	return normalize.RawTask{
		Title:              optString(args, "title"),
		Notes:              optString(args, "notes"),
		Category:           optString(args, "category"),
		SubType:            optString(args, "subType"),
		Priority:           optString(args, "priority"),
		Color:              optString(args, "color"),
		DurationMinutes:    optInt(args, "durationMinutes"),
		MinDurationMinutes: optInt(args, "minDurationMinutes"),
		MaxDurationMinutes: optInt(args, "maxDurationMinutes"),
		TimeChunksRequired: optInt(args, "timeChunksRequired"),
		MinChunkSize:       optInt(args, "minChunkSize"),
		MaxChunkSize:       optInt(args, "maxChunkSize"),
		LockToDuration:     optBool(args, "lockToDuration"),
		AlwaysPrivate:      optBool(args, "alwaysPrivate"),
		OnDeck:             optBool(args, "onDeck"),
		Due:                optString(args, "due"),
		DueInDays:          optInt(args, "dueInDays"),
		SnoozeUntil:        optString(args, "snoozeUntil"),
		StartAt:            optString(args, "startAt"),
		TimeSchemeID:       optString(args, "timeSchemeId"),
	}
}

// durationArgs attaches the shared duration/scheduling parameters to a tool.
func durationArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("durationMinutes",
			mcp.Description("Total task duration in minutes (must be a multiple of 15)"),
		),
		mcp.WithNumber("minDurationMinutes",
			mcp.Description("Minimum scheduling block in minutes (must be a multiple of 15)"),
		),
		mcp.WithNumber("maxDurationMinutes",
			mcp.Description("Maximum scheduling block in minutes (must be a multiple of 15)"),
		),
		mcp.WithNumber("timeChunksRequired",
			mcp.Description("Total task duration in 15-minute chunks (durationMinutes takes precedence)"),
		),
		mcp.WithNumber("minChunkSize",
			mcp.Description("Minimum scheduling block in 15-minute chunks"),
		),
		mcp.WithNumber("maxChunkSize",
			mcp.Description("Maximum scheduling block in 15-minute chunks"),
		),
		mcp.WithBoolean("lockToDuration",
			mcp.Description("Schedule the task as a single unsplittable block of the full duration"),
		),
	}
}

// fieldArgs attaches the shared task field parameters to a tool.
func fieldArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("notes",
			mcp.Description("Notes or description for the task"),
		),
		mcp.WithString("category",
			mcp.Description("Task category: WORK or PERSONAL (common aliases accepted)"),
		),
		mcp.WithString("subType",
			mcp.Description("Event sub-type: FOCUS, STAFF_MEETING, EMAIL, TRAVEL, PERSONAL, SELF_CARE (aliases like 'meeting' accepted)"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority P1 (highest) to P4 (lowest); 'urgent', 'high', 'low' etc. accepted"),
		),
		mcp.WithString("color",
			mcp.Description("Calendar event color (e.g. TOMATO, BLUEBERRY; plain color names accepted)"),
		),
		mcp.WithBoolean("alwaysPrivate",
			mcp.Description("Mark the scheduled calendar event as private"),
		),
		mcp.WithBoolean("onDeck",
			mcp.Description("Add the task to the up-next queue"),
		),
		mcp.WithString("due",
			mcp.Description("Due date/time; offset-less values are interpreted in the resolved timezone"),
		),
		mcp.WithNumber("dueInDays",
			mcp.Description("Due in this many days from now (ignored when 'due' is given)"),
		),
		mcp.WithString("snoozeUntil",
			mcp.Description("Do not schedule before this date/time"),
		),
		mcp.WithString("timeSchemeId",
			mcp.Description("Scheduling hours scheme ID"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA timezone for offset-less date/time values (default: configured or account timezone)"),
		),
	}
}

// RegisterTaskTools registers all Reclaim task tools with the MCP server.
// Mutating tools are skipped in read-only mode.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
		registerLifecycleTools(s, sc)
	}
	return nil
}

// registerReadTools registers tools that never mutate state.
func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listTasksTool := mcp.NewTool("reclaim_list_tasks",
		mcp.WithDescription("List Reclaim tasks, optionally filtered by status"),
		mcp.WithString("status",
			mcp.Description("Comma-separated status filter: NEW, SCHEDULED, IN_PROGRESS, COMPLETE, CANCELLED, ARCHIVED"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandlerWithService("reclaim_list_tasks", "tasks", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			tasks, err := sc.Client().ListTasks(ctx, optString(args, "status"))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
			}

			result, _ := json.MarshalIndent(tasks, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))

	getTaskTool := mcp.NewTool("reclaim_get_task",
		mcp.WithDescription("Get details of a specific Reclaim task"),
		mcp.WithNumber("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to retrieve"),
		),
	)

	s.AddTool(getTaskTool, common.InstrumentedToolHandlerWithService("reclaim_get_task", "tasks", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := getTaskID(args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := sc.Client().GetTask(ctx, taskID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(string(result)), nil
		}))
}

// registerWriteTools registers task creation and update tools.
func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a Reclaim task. Unset fields are filled from the account's task defaults; durations are normalized to 15-minute chunks."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The task title"),
		),
		mcp.WithString("startAt",
			mcp.Description("Earliest start date/time; when given without 'due', the due date is derived from start plus duration"),
		),
	}
	createOpts = append(createOpts, fieldArgs()...)
	createOpts = append(createOpts, durationArgs()...)
	createTaskTool := mcp.NewTool("reclaim_create_task", createOpts...)

	s.AddTool(createTaskTool, common.InstrumentedToolHandlerWithService("reclaim_create_task", "tasks", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			raw := buildRawTask(args)
			rc := sc.LocalTimeContext(ctx, optString(args, "timeZone"))
			defaults := sc.TaskDefaults(ctx)

			fields, err := normalize.Create(raw, defaults, rc, time.Now())
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := sc.Client().CreateTask(ctx, fields)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task created successfully:\n%s", string(result))), nil
		}))

	updateOpts := []mcp.ToolOption{
		mcp.WithDescription("Update an existing Reclaim task. Only the supplied fields are changed; account defaults are not applied."),
		mcp.WithNumber("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("title",
			mcp.Description("New title for the task"),
		),
	}
	updateOpts = append(updateOpts, fieldArgs()...)
	updateOpts = append(updateOpts, durationArgs()...)
	updateTaskTool := mcp.NewTool("reclaim_update_task", updateOpts...)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithService("reclaim_update_task", "tasks", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := getTaskID(args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			raw := buildRawTask(args)
			rc := sc.LocalTimeContext(ctx, optString(args, "timeZone"))

			fields, err := normalize.Update(raw, rc, time.Now())
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if len(fields) == 0 {
				return mcp.NewToolResultError("no fields to update"), nil
			}

			task, err := sc.Client().UpdateTask(ctx, taskID, fields)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task updated successfully:\n%s", string(result))), nil
		}))
}

// registerLifecycleTools registers completion, deletion, snoozing, and
// time-logging tools.
func registerLifecycleTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	completeTool := mcp.NewTool("reclaim_mark_complete",
		mcp.WithDescription("Mark one or more Reclaim tasks as done"),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID or array of task IDs to mark done"),
		),
	)

	s.AddTool(completeTool, common.InstrumentedToolHandlerWithService("reclaim_mark_complete", "tasks", "done", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskIDs, err := batch.ParseTaskIDs(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(taskIDs, func(id int64) (string, error) {
				task, err := sc.Client().MarkDone(ctx, id)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %d (%s) marked done", id, task.Title), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	incompleteTool := mcp.NewTool("reclaim_mark_incomplete",
		mcp.WithDescription("Reopen a completed Reclaim task"),
		mcp.WithNumber("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to reopen"),
		),
	)

	s.AddTool(incompleteTool, common.InstrumentedToolHandlerWithService("reclaim_mark_incomplete", "tasks", "unarchive", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := getTaskID(args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := sc.Client().MarkIncomplete(ctx, taskID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to reopen task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task reopened:\n%s", string(result))), nil
		}))

	deleteTool := mcp.NewTool("reclaim_delete_task",
		mcp.WithDescription("Delete one or more Reclaim tasks"),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID or array of task IDs to delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService("reclaim_delete_task", "tasks", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskIDs, err := batch.ParseTaskIDs(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(taskIDs, func(id int64) (string, error) {
				if err := sc.Client().DeleteTask(ctx, id); err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %d deleted", id), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	snoozeTool := mcp.NewTool("reclaim_snooze_task",
		mcp.WithDescription("Snooze a Reclaim task so it is not scheduled before the given time"),
		mcp.WithNumber("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to snooze"),
		),
		mcp.WithString("until",
			mcp.Required(),
			mcp.Description("Date/time to snooze until; offset-less values are interpreted in the resolved timezone"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA timezone for offset-less date/time values"),
		),
	)

	s.AddTool(snoozeTool, common.InstrumentedToolHandlerWithService("reclaim_snooze_task", "tasks", "snooze", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := getTaskID(args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			until := optString(args, "until")
			if until == "" {
				return mcp.NewToolResultError("until is required"), nil
			}

			rc := sc.LocalTimeContext(ctx, optString(args, "timeZone"))
			fields, err := normalize.Update(normalize.RawTask{SnoozeUntil: until}, rc, time.Now())
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := sc.Client().UpdateTask(ctx, taskID, fields)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to snooze task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task snoozed:\n%s", string(result))), nil
		}))

	addTimeTool := mcp.NewTool("reclaim_add_time",
		mcp.WithDescription("Add scheduling time to a Reclaim task"),
		mcp.WithNumber("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task"),
		),
		mcp.WithNumber("minutes",
			mcp.Required(),
			mcp.Description("Minutes to add (must be a multiple of 15)"),
		),
	)

	s.AddTool(addTimeTool, common.InstrumentedToolHandlerWithService("reclaim_add_time", "tasks", "add-time", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			taskID, err := getTaskID(args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			minutes := optInt(args, "minutes")
			if minutes == nil {
				return mcp.NewToolResultError("minutes is required"), nil
			}
			if _, err := normalize.MinutesToChunks(*minutes); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := sc.Client().AddTime(ctx, taskID, *minutes)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add time: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Time added:\n%s", string(result))), nil
		}))
}
