// Package batch helps MCP tools that act on several tasks in one call.
//
// Tools accept either a single task ID or an array of IDs, run the operation
// once per ID, and report a per-ID outcome. One failing ID does not stop the
// rest of the batch.
package batch
