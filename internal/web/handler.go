package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/teemow/sheettodo/internal/instrumentation"
	"github.com/teemow/sheettodo/internal/logging"
	"github.com/teemow/sheettodo/internal/reminder"
	"github.com/teemow/sheettodo/internal/tasks"
)

// Flash messages shown after a mutation.
const (
	FlashRequired        = "タイトルと期日は必須です。"
	FlashAdded           = "タスクを追加しました。"
	FlashNotFound        = "タスクが見つかりません。"
	FlashUpdated         = "タスクを更新しました。"
	FlashToggled         = "タスクの状態を更新しました。"
	FlashDeleted         = "タスクを削除しました。"
	FlashDeletedComplete = "完了済みタスクを一括削除しました。"
)

const (
	pageIndex = "index.html"
	pageTasks = "tasks.html"
	pageEdit  = "edit.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Store is the task repository used by the handlers.
type Store interface {
	List(ctx context.Context) ([]tasks.Task, error)
	Get(ctx context.Context, id string) (tasks.Task, error)
	Create(ctx context.Context, in tasks.Input) (string, error)
	Update(ctx context.Context, id string, in tasks.Input) error
	Toggle(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteCompleted(ctx context.Context) (int, error)
}

// Handler serves the task pages.
type Handler struct {
	store   Store
	flash   *flashCodec
	pages   map[string]*template.Template
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	now     func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithMetrics records task mutations on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithAuditLogger writes an audit event for every mutation.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(h *Handler) { h.audit = al }
}

// WithClock overrides the clock used to mark overdue tasks.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler parses the page templates and returns a handler backed by store.
// secretKey signs the flash cookie.
func NewHandler(store Store, secretKey string, opts ...Option) (*Handler, error) {
	if store == nil {
		return nil, errors.New("task store is required")
	}
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		store:  store,
		flash:  newFlashCodec(secretKey),
		pages:  pages,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageIndex, pageTasks, pageEdit} {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Register adds the page routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /tasks", h.list)
	mux.HandleFunc("POST /add", h.add)
	mux.HandleFunc("GET /edit/{id}", h.edit)
	mux.HandleFunc("POST /update/{id}", h.update)
	mux.HandleFunc("POST /toggle/{id}", h.toggle)
	mux.HandleFunc("POST /delete/{id}", h.delete)
	mux.HandleFunc("POST /delete_completed", h.deleteCompleted)
}

// row is a task as shown in a list.
type row struct {
	tasks.Task
	IsOverdue bool
}

type pageData struct {
	Flash      string
	Rows       []row
	Task       tasks.Task
	Filter     string
	Category   string
	Sort       string
	Categories []string
	Priorities []string
}

func (h *Handler) rows(ts []tasks.Task) []row {
	now := h.now().In(reminder.JST)
	out := make([]row, len(ts))
	for i, t := range ts {
		out[i] = row{Task: t, IsOverdue: t.Overdue(now)}
	}
	return out
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	ts, err := h.store.List(r.Context())
	if err != nil {
		h.serverError(w, r, "list", err)
		return
	}
	tasks.SortByDue(ts)

	h.render(w, r, pageIndex, pageData{Rows: h.rows(ts)})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ts, err := h.store.List(r.Context())
	if err != nil {
		h.serverError(w, r, "list", err)
		return
	}

	q := r.URL.Query()
	data := pageData{
		Filter:   q.Get("filter"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}
	ts = tasks.Filter{TodoOnly: data.Filter == "todo", Category: data.Category}.Apply(ts)
	tasks.Sort(ts, data.Sort == "priority")
	data.Rows = h.rows(ts)

	h.render(w, r, pageTasks, data)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Get(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		h.redirect(w, r, "/tasks", FlashNotFound)
		return
	case err != nil:
		h.serverError(w, r, "get", err)
		return
	}
	h.render(w, r, pageEdit, pageData{Task: t, Categories: editCategories(t.Category)})
}

// editCategories keeps a free-form category selectable on the edit form.
// The blank option stands for Uncategorized.
func editCategories(current string) []string {
	if current == tasks.Uncategorized || slices.Contains(tasks.Categories, current) {
		return tasks.Categories
	}
	return append(slices.Clone(tasks.Categories), current)
}

func formInput(r *http.Request) tasks.Input {
	return tasks.Input{
		Title:    r.PostFormValue("title"),
		Content:  r.PostFormValue("content"),
		Due:      r.PostFormValue("duedate"),
		Category: r.PostFormValue("category"),
		Priority: r.PostFormValue("priority"),
	}
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	event := instrumentation.NewAuditEvent(instrumentation.SourceWeb, instrumentation.OperationCreate).WithSpanContext(ctx)

	id, err := h.store.Create(ctx, formInput(r))
	h.finish(ctx, event.WithTask(id), err)
	switch {
	case errors.Is(err, tasks.ErrValidation):
		h.redirect(w, r, "/", FlashRequired)
	case err != nil:
		h.serverError(w, r, instrumentation.OperationCreate, err)
	default:
		h.redirect(w, r, "/", FlashAdded)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	event := instrumentation.NewAuditEvent(instrumentation.SourceWeb, instrumentation.OperationUpdate).WithTask(id).WithSpanContext(ctx)

	err := h.store.Update(ctx, id, formInput(r))
	h.finish(ctx, event, err)
	switch {
	case errors.Is(err, tasks.ErrValidation):
		h.redirect(w, r, "/tasks", FlashRequired)
	case errors.Is(err, tasks.ErrNotFound):
		h.redirect(w, r, "/tasks", FlashNotFound)
	case err != nil:
		h.serverError(w, r, instrumentation.OperationUpdate, err)
	default:
		h.redirect(w, r, "/tasks", FlashUpdated)
	}
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	event := instrumentation.NewAuditEvent(instrumentation.SourceWeb, instrumentation.OperationToggle).WithTask(id).WithSpanContext(ctx)

	_, err := h.store.Toggle(ctx, id)
	h.finish(ctx, event, err)
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		h.redirect(w, r, "/tasks", FlashNotFound)
	case err != nil:
		h.serverError(w, r, instrumentation.OperationToggle, err)
	default:
		target := sameOriginReferer(r)
		if target == "" {
			target = "/tasks"
		}
		h.redirect(w, r, target, FlashToggled)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	event := instrumentation.NewAuditEvent(instrumentation.SourceWeb, instrumentation.OperationDelete).WithTask(id).WithSpanContext(ctx)

	err := h.store.Delete(ctx, id)
	h.finish(ctx, event, err)
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		h.redirect(w, r, "/tasks", FlashNotFound)
	case err != nil:
		h.serverError(w, r, instrumentation.OperationDelete, err)
	default:
		h.redirect(w, r, "/tasks", FlashDeleted)
	}
}

func (h *Handler) deleteCompleted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	event := instrumentation.NewAuditEvent(instrumentation.SourceWeb, instrumentation.OperationPurge).WithSpanContext(ctx)

	n, err := h.store.DeleteCompleted(ctx)
	h.finish(ctx, event.WithCount(n), err)
	if err != nil {
		h.serverError(w, r, instrumentation.OperationPurge, err)
		return
	}
	h.redirect(w, r, "/tasks", FlashDeletedComplete)
}

// finish records the outcome of a mutation.
func (h *Handler) finish(ctx context.Context, event *instrumentation.AuditEvent, err error) {
	event.Complete(err)
	h.metrics.RecordTaskMutation(ctx, event.Action, instrumentation.SourceWeb, tasks.MutationStatus(err))
	h.audit.Log(ctx, event)
}

// sameOriginReferer returns the path and query of the Referer header when it
// points back at this host, else "".
func sameOriginReferer(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.Host != "" && u.Host != r.Host {
		return ""
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return ""
	}
	target := u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target, flash string) {
	if flash != "" {
		h.flash.set(w, flash)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data pageData) {
	data.Flash = h.flash.pop(w, r)
	if data.Categories == nil {
		data.Categories = tasks.Categories
	}
	data.Priorities = tasks.Priorities

	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.serverError(w, r, "render", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		logging.Operation(op),
		slog.String("path", r.URL.Path),
		logging.Err(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
