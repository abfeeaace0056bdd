package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/teemow/sheettodo/internal/google"
	"github.com/teemow/sheettodo/internal/instrumentation"
	"github.com/teemow/sheettodo/internal/logging"
)

const (
	// APITimeout is the timeout for a single Sheets API call.
	APITimeout = 30 * time.Second

	valueRenderFormatted = "FORMATTED_VALUE"
	valueInputRaw        = "RAW"
	insertRows           = "INSERT_ROWS"
)

// Client wraps the Google Sheets service for one spreadsheet.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	metrics       *instrumentation.Metrics
	logger        *slog.Logger
}

// NewClient creates a Sheets client authenticated as the service account.
func NewClient(ctx context.Context, creds *google.Credentials, spreadsheetID string) (*Client, error) {
	httpClient, err := creds.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated HTTP client: %w", err)
	}
	return NewWithHTTPClient(ctx, httpClient, spreadsheetID)
}

// NewWithHTTPClient creates a client with a custom HTTP client. Extra options
// such as option.WithEndpoint are used by tests.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, spreadsheetID string, opts ...option.ClientOption) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        slog.Default(),
	}, nil
}

// SpreadsheetID returns the spreadsheet key this client is bound to.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// SetMetrics sets the recorder for API call metrics.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// SetLogger sets the logger used for debug output of API calls.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Worksheet returns a handle to the worksheet with the given title, or to the
// first worksheet when title is empty. The worksheet is resolved on first use.
func (c *Client) Worksheet(title string) *Worksheet {
	return &Worksheet{client: c, wantTitle: title}
}

// call runs fn with the per-call timeout, inside a span, and records metrics.
func (c *Client) call(ctx context.Context, op string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	attrs = append(attrs, attribute.String(instrumentation.SpanAttrSpreadsheet, c.spreadsheetID))
	ctx, span := instrumentation.StartSheetsSpan(ctx, op, attrs...)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	start := time.Now()
	err := wrapError(op, fn(ctx))
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordAPIOperation(ctx, instrumentation.ServiceSheets, op, status, duration)

	c.logger.Debug("sheets call",
		logging.Operation(op),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, duration),
		logging.Err(err),
	)
	return err
}

// quoteTitle returns the worksheet title quoted for use in A1 notation.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// columnName converts a 1-based column index to its A1 letters (1 -> A, 27 -> AA).
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
