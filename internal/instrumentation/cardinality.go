package instrumentation

// Cardinality management helpers for metrics.
// Label values must come from small fixed sets; raw request paths carry task
// identifiers and would create one series per task.

// unmatchedRoute is the label used for requests that matched no route.
const unmatchedRoute = "unmatched"

// RouteLabel returns the label for an HTTP route pattern such as
// "POST /toggle/{id}". Requests that matched no pattern share one label.
func RouteLabel(pattern string) string {
	if pattern == "" {
		return unmatchedRoute
	}
	return pattern
}

// Operation types for Google Sheets metrics and task mutations.
const (
	OperationRead     = "read"
	OperationMetadata = "metadata"
	OperationAppend   = "append"
	OperationUpdate   = "update"
	OperationDelete   = "delete"
	OperationCreate   = "create"
	OperationToggle   = "toggle"
	OperationPurge    = "delete_completed"
	OperationPush     = "push"
)
