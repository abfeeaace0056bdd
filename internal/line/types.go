package line

import "fmt"

// Message is a LINE message object. Only the text type is used.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PushRequest is the body of a push call.
type PushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// PushError represents a failed push
type PushError struct {
	// Op is the operation that failed (e.g., "push", "validate")
	Op string

	// StatusCode is the HTTP status returned by LINE, 0 if no response was received
	StatusCode int

	// Body is the (truncated) response body returned by LINE
	Body string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface
func (e *PushError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("line %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("line %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("line %s failed", e.Op)
	}
}

// Unwrap implements the errors.Unwrap interface
func (e *PushError) Unwrap() error {
	return e.Err
}
