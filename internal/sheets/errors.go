package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrWorksheetNotFound is returned when the configured worksheet title does
// not exist in the spreadsheet, or the spreadsheet has no worksheets.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// APIError describes a failed Sheets API call.
type APIError struct {
	Op         string // Operation that failed (read, append, update, delete, metadata)
	StatusCode int    // HTTP status code, 0 when the request never got a response
	Err        error  // Underlying error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sheets %s failed (HTTP %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("sheets %s failed: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call was abandoned after APITimeout.
func (e *APIError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	apiErr := &APIError{Op: op, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		apiErr.StatusCode = gerr.Code
	}
	return apiErr
}
