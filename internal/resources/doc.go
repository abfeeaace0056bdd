// Package resources registers read-only MCP resources over the task sheet.
//
//   - tasks://summary   JSON counts of open, completed and overdue tasks per category
//   - tasks://reminder  the reminder message that would be pushed now
package resources
