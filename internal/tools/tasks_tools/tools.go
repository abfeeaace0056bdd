package tasks_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/sheettodo/internal/instrumentation"
	"github.com/teemow/sheettodo/internal/tasks"
	"github.com/teemow/sheettodo/internal/tools/batch"
	"github.com/teemow/sheettodo/internal/tools/common"
)

// Store is the task repository used by the tools.
type Store interface {
	List(ctx context.Context) ([]tasks.Task, error)
	Get(ctx context.Context, id string) (tasks.Task, error)
	Create(ctx context.Context, in tasks.Input) (string, error)
	Update(ctx context.Context, id string, in tasks.Input) error
	Toggle(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteCompleted(ctx context.Context) (int, error)
}

// RegisterTasksTools registers the task tools with the MCP server.
func RegisterTasksTools(s *mcpserver.MCPServer, store Store, inst common.Instruments, readOnly bool) error {
	if store == nil {
		return errors.New("task store is required")
	}
	s.AddTools(Tools(store, inst, readOnly)...)
	return nil
}

// Tools returns the task tools with instrumented handlers. Write tools are
// omitted when readOnly is set.
func Tools(store Store, inst common.Instruments, readOnly bool) []mcpserver.ServerTool {
	t := &toolSet{store: store, inst: inst}

	tools := []mcpserver.ServerTool{
		t.tool(listTool(), t.list),
		t.tool(getTool(), t.get),
	}
	if readOnly {
		return tools
	}
	return append(tools,
		t.tool(addTool(), t.add),
		t.tool(updateTool(), t.update),
		t.tool(toggleTool(), t.toggle),
		t.tool(deleteTool(), t.delete),
		t.tool(deleteCompletedTool(), t.deleteCompleted),
	)
}

type toolSet struct {
	store Store
	inst  common.Instruments
}

func (t *toolSet) tool(tool mcp.Tool, handler mcpserver.ToolHandlerFunc) mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: common.InstrumentedToolHandler(tool.Name, t.inst, handler),
	}
}

// recordMutation counts a task mutation made through MCP.
func (t *toolSet) recordMutation(ctx context.Context, op string, err error) {
	t.inst.Metrics.RecordTaskMutation(ctx, op, instrumentation.SourceMCP, tasks.MutationStatus(err))
}

func listTool() mcp.Tool {
	return mcp.NewTool("tasks_list",
		mcp.WithDescription("List tasks from the task spreadsheet. Tasks are sorted by due date unless sort is 'priority'."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("filter",
			mcp.Description("'todo' to return only incomplete tasks, 'all' (default) for every task"),
			mcp.Enum("all", "todo"),
		),
		mcp.WithString("category",
			mcp.Description("Only return tasks of this category (e.g. 仕事, 家庭, 学習)"),
		),
		mcp.WithString("sort",
			mcp.Description("'due' (default) sorts by due date, 'priority' by priority then due date"),
			mcp.Enum("due", "priority"),
		),
	)
}

func (t *toolSet) list(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ts, err := t.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
	}

	ts = tasks.Filter{
		TodoOnly: common.StringArg(args, "filter") == "todo",
		Category: common.StringArg(args, "category"),
	}.Apply(ts)
	tasks.Sort(ts, common.StringArg(args, "sort") == "priority")

	return jsonResult(map[string]any{
		"count": len(ts),
		"tasks": ts,
	})
}

func getTool() mcp.Tool {
	return mcp.NewTool("tasks_get",
		mcp.WithDescription("Get a single task by its ID"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The task ID, e.g. '007'"),
		),
	)
}

func (t *toolSet) get(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := common.StringArg(request.GetArguments(), "taskId")
	if id == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}

	task, err := t.store.Get(ctx, id)
	if errors.Is(err, tasks.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Task %s not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get task: %v", err)), nil
	}
	return jsonResult(task)
}

// taskFieldOptions are the editable task fields shared by add and update.
func taskFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("due",
			mcp.Required(),
			mcp.Description("Due date as 'YYYY-MM-DD' or 'YYYY-MM-DDTHH:MM'"),
		),
		mcp.WithString("content",
			mcp.Description("Free-form notes"),
		),
		mcp.WithString("category",
			mcp.Description("Category, e.g. 仕事, 家庭 or 学習"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority: 高 (high), 中 (medium, default) or 低 (low)"),
			mcp.Enum(tasks.Priorities...),
		),
	}
}

func inputFromArgs(args map[string]any) tasks.Input {
	return tasks.Input{
		Title:    common.StringArg(args, "title"),
		Content:  common.StringArg(args, "content"),
		Due:      common.StringArg(args, "due"),
		Category: common.StringArg(args, "category"),
		Priority: common.StringArg(args, "priority"),
	}
}

func addTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Add a new incomplete task. The next free ID is assigned automatically."),
	}, taskFieldOptions()...)
	return mcp.NewTool("tasks_add", opts...)
}

func (t *toolSet) add(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := t.store.Create(ctx, inputFromArgs(request.GetArguments()))
	t.recordMutation(ctx, instrumentation.OperationCreate, err)
	if errors.Is(err, tasks.ErrValidation) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add task: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %s added", id)), nil
}

func updateTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Overwrite the title, due date, content, category and priority of a task. The completion flag is kept."),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
	}, taskFieldOptions()...)
	return mcp.NewTool("tasks_update", opts...)
}

func (t *toolSet) update(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id := common.StringArg(args, "taskId")
	if id == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}

	err := t.store.Update(ctx, id, inputFromArgs(args))
	t.recordMutation(ctx, instrumentation.OperationUpdate, err)
	switch {
	case errors.Is(err, tasks.ErrValidation):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, tasks.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("Task %s not found", id)), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %s updated", id)), nil
}

func toggleTool() mcp.Tool {
	return mcp.NewTool("tasks_toggle",
		mcp.WithDescription("Flip the completion flag of one or more tasks"),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to toggle"),
		),
	)
}

func (t *toolSet) toggle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := batch.ParseIDs(request.GetArguments()["taskIds"], "taskIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := batch.Process(ctx, ids, func(ctx context.Context, id string) (string, error) {
		completed, err := t.store.Toggle(ctx, id)
		t.recordMutation(ctx, instrumentation.OperationToggle, err)
		if err != nil {
			return "", err
		}
		if completed {
			return fmt.Sprintf("Task %s marked as completed", id), nil
		}
		return fmt.Sprintf("Task %s marked as not completed", id), nil
	})
	return batchResult(summary), nil
}

func deleteTool() mcp.Tool {
	return mcp.NewTool("tasks_delete",
		mcp.WithDescription("Delete one or more tasks"),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to delete"),
		),
	)
}

func (t *toolSet) delete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := batch.ParseIDs(request.GetArguments()["taskIds"], "taskIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := batch.Process(ctx, ids, func(ctx context.Context, id string) (string, error) {
		err := t.store.Delete(ctx, id)
		t.recordMutation(ctx, instrumentation.OperationDelete, err)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Task %s deleted", id), nil
	})
	return batchResult(summary), nil
}

func deleteCompletedTool() mcp.Tool {
	return mcp.NewTool("tasks_delete_completed",
		mcp.WithDescription("Delete every completed task"),
		mcp.WithDestructiveHintAnnotation(true),
	)
}

func (t *toolSet) deleteCompleted(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := t.store.DeleteCompleted(ctx)
	t.recordMutation(ctx, instrumentation.OperationPurge, err)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete completed tasks after %d deletions: %v", n, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %d completed tasks", n)), nil
}

// batchResult reports a batch as JSON. Any failed item marks the result as an error.
func batchResult(s batch.Summary) *mcp.CallToolResult {
	result := mcp.NewToolResultText(s.JSON())
	result.IsError = s.Failed > 0
	return result
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
