package common

import "strings"

// StringArg returns the trimmed string argument key, or "" when it is absent
// or not a string.
func StringArg(args map[string]any, key string) string {
	v, ok := args[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// TaskIDFromArgs returns the single task identifier of a request, if any.
// It reads "taskId", or "taskIds" when that holds exactly one string.
func TaskIDFromArgs(args map[string]any) string {
	if id := StringArg(args, "taskId"); id != "" {
		return id
	}
	switch v := args["taskIds"].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) == 1 {
			if s, ok := v[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
