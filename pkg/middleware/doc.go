// Package middleware provides observability for the web glue.
//
// This package includes:
//   - Prometheus render metrics, fed through web.Observer
//   - OpenTelemetry request tracing as net/http middleware
//
// # Prometheus Metrics
//
// Metrics is an observer for web.Handler:
//   - wbweb_renders_total: Responses by strategy and status
//   - wbweb_render_duration_seconds: View and render duration histogram
//   - wbweb_render_errors_total: Failures by strategy and kind
//
//	m := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//	h := web.Handler(n, view, web.WithObserver(m))
//	r.Handle("/metrics", promhttp.Handler())
//
// Error kinds are "view", "malformed", "payload", "strategy" and
// "internal"; error messages never become labels.
//
// # OpenTelemetry
//
// Tracing opens a server span per request. The span is stored in the
// request context, so web.Handler can add the negotiated strategy:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Tracing(middleware.WithRequestFilter(func(r *http.Request) bool {
//	    return r.URL.Path != "/healthz"
//	})))
package middleware
