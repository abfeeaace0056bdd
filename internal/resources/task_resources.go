package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/teemow/sheettodo/internal/reminder"
	"github.com/teemow/sheettodo/internal/tasks"
)

const (
	// SummaryURI serves the Summary of the sheet as JSON.
	SummaryURI = "tasks://summary"

	// ReminderURI serves the reminder message a run would push now.
	ReminderURI = "tasks://reminder"
)

// RecordSource returns the raw worksheet rows.
type RecordSource interface {
	Records(ctx context.Context) ([]map[string]string, error)
}

// Summary is the tasks://summary payload.
type Summary struct {
	Total      int                      `json:"total"`
	Open       int                      `json:"open"`
	Completed  int                      `json:"completed"`
	Overdue    int                      `json:"overdue"`
	Categories map[string]CategoryTally `json:"categories"`
	At         string                   `json:"at"`
}

// CategoryTally counts the tasks of one category.
type CategoryTally struct {
	Open      int `json:"open"`
	Completed int `json:"completed"`
}

// RegisterTaskResources registers the task resources with the MCP server.
// now defaults to time.Now.
func RegisterTaskResources(s *server.MCPServer, source RecordSource, now func() time.Time) error {
	if source == nil {
		return fmt.Errorf("record source is required")
	}
	if now == nil {
		now = time.Now
	}

	summary := mcp.NewResource(
		SummaryURI,
		"Task summary",
		mcp.WithResourceDescription("Open, completed and overdue task counts, per category"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(summary, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSummary(ctx, request, source, now)
	})

	preview := mcp.NewResource(
		ReminderURI,
		"Reminder preview",
		mcp.WithResourceDescription("The reminder message for tasks due today or tomorrow (JST), without pushing it"),
		mcp.WithMIMEType("text/plain"),
	)
	s.AddResource(preview, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleReminder(ctx, request, source, now)
	})

	return nil
}

// Summarize tallies the rows as of now.
func Summarize(recs []map[string]string, now time.Time) Summary {
	local := now.In(reminder.JST)
	sum := Summary{
		Categories: make(map[string]CategoryTally),
		At:         local.Format(time.RFC3339),
	}
	for _, rec := range recs {
		t := tasks.Normalize(rec)
		sum.Total++
		tally := sum.Categories[t.Category]
		if t.Completed {
			sum.Completed++
			tally.Completed++
		} else {
			sum.Open++
			tally.Open++
			if t.Overdue(local) {
				sum.Overdue++
			}
		}
		sum.Categories[t.Category] = tally
	}
	return sum
}

func handleSummary(ctx context.Context, request mcp.ReadResourceRequest, source RecordSource, now func() time.Time) ([]mcp.ResourceContents, error) {
	recs, err := source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	jsonData, err := json.MarshalIndent(Summarize(recs, now()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func handleReminder(ctx context.Context, request mcp.ReadResourceRequest, source RecordSource, now func() time.Time) ([]mcp.ResourceContents, error) {
	n := reminder.NewNotifier(source, nil, "", reminder.WithClock(now))
	res, err := n.Run(ctx, true)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     res.Message,
		},
	}, nil
}
