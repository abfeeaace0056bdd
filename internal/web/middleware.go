package web

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/sheettodo/internal/instrumentation"
)

// Instrument wraps next with request tracing and HTTP metrics.
//
// next is expected to be a *http.ServeMux: the matched route pattern is read
// from the request after the mux has served it, so metrics carry the pattern
// rather than the raw path.
func Instrument(next http.Handler, metrics *instrumentation.Metrics) http.Handler {
	measured := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, instrumentation.RouteLabel(r.Pattern), m.Code, m.Duration)
	})

	return otelhttp.NewHandler(measured, "sheettodo.web",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
