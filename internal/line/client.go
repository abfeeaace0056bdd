package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/sheettodo/internal/instrumentation"
)

const (
	// DefaultPushEndpoint is the LINE Messaging API push endpoint.
	DefaultPushEndpoint = "https://api.line.me/v2/bot/message/push"

	// DefaultTimeout bounds a single push request.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4096
)

// Client pushes messages through the LINE Messaging API.
type Client struct {
	token      string
	endpoint   string
	httpClient *http.Client
	metrics    *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the push endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics sets the recorder for push metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client authenticating with the channel access token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &PushError{Op: "initialize", Err: fmt.Errorf("channel access token cannot be empty")}
	}

	c := &Client{
		token:    token,
		endpoint: DefaultPushEndpoint,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the push endpoint in use.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Push sends a single text message to the user, group or room id to.
func (c *Client) Push(ctx context.Context, to, text string) (err error) {
	if to == "" {
		return &PushError{Op: "push", Err: fmt.Errorf("recipient cannot be empty")}
	}
	if text == "" {
		return &PushError{Op: "push", Err: fmt.Errorf("message cannot be empty")}
	}

	start := time.Now()
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
		}
		c.metrics.RecordAPIOperation(ctx, instrumentation.ServiceLINE, instrumentation.OperationPush, status, time.Since(start))
	}()

	body, err := json.Marshal(PushRequest{
		To:       to,
		Messages: []Message{{Type: "text", Text: text}},
	})
	if err != nil {
		return &PushError{Op: "push", Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &PushError{Op: "push", Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &PushError{Op: "push", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &PushError{Op: "push", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
