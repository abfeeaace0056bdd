// Package common provides shared utilities for MCP tool implementations:
// argument helpers and the instrumentation wrapper applied to every tool.
package common
