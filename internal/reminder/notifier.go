package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/sheettodo/internal/instrumentation"
	"github.com/teemow/sheettodo/internal/logging"
)

// RecordSource provides the raw task rows.
type RecordSource interface {
	Records(ctx context.Context) ([]map[string]string, error)
}

// Pusher delivers a text message to a recipient.
type Pusher interface {
	Push(ctx context.Context, to, text string) error
}

// Result describes one reminder run.
type Result struct {
	// Message is the rendered text.
	Message string

	// Tasks is the number of tasks included.
	Tasks int

	// Pushed is false for dry runs.
	Pushed bool
}

// Notifier runs the reminder: read rows, select, render, push.
type Notifier struct {
	source    RecordSource
	pusher    Pusher
	recipient string

	now     func() time.Time
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithClock overrides the current time source.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(n *Notifier) {
		n.metrics = m
	}
}

// NewNotifier creates a notifier reading from source and pushing to recipient.
// The pusher may be nil when the notifier is only used for dry runs.
func NewNotifier(source RecordSource, pusher Pusher, recipient string, opts ...Option) *Notifier {
	n := &Notifier{
		source:    source,
		pusher:    pusher,
		recipient: recipient,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Run performs one reminder. With dryRun the message is rendered but not pushed.
// Push failures are returned as-is and not retried.
func (n *Notifier) Run(ctx context.Context, dryRun bool) (res Result, err error) {
	ctx, span := instrumentation.StartReminderSpan(ctx, dryRun)
	defer span.End()

	logger := logging.WithOperation(n.logger, "reminder")
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		n.metrics.RecordReminderRun(ctx, status, res.Tasks)
	}()

	recs, err := n.source.Records(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read tasks: %w", err)
	}

	items := Select(recs, n.now())
	res = Result{Message: BuildMessage(items), Tasks: len(items)}
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrTaskCount, res.Tasks))

	if dryRun {
		logger.Info("dry run, message not pushed", logging.Count(res.Tasks))
		return res, nil
	}

	if n.pusher == nil {
		return res, errors.New("no chat client configured")
	}
	if err := n.pusher.Push(ctx, n.recipient, res.Message); err != nil {
		return res, fmt.Errorf("failed to push reminder: %w", err)
	}
	res.Pushed = true

	logger.Info("reminder pushed",
		logging.Count(res.Tasks),
		logging.Recipient(n.recipient),
	)
	return res, nil
}
