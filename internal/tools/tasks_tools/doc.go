// Package tasks_tools provides MCP tools for the spreadsheet task list.
//
// Read tools (always registered):
//   - tasks_list: list tasks, optionally only open ones, one category, or by priority
//   - tasks_get: fetch one task by ID
//
// Write tools (registered unless the server is read-only):
//   - tasks_add: create a task
//   - tasks_update: overwrite the editable fields of a task
//   - tasks_toggle: flip the completion flag of one or more tasks
//   - tasks_delete: delete one or more tasks
//   - tasks_delete_completed: delete every completed task
package tasks_tools
