package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"github.com/wbweb-dev/wbweb/pkg/negotiate"
)

// Request headers that mark API clients.
const (
	HeaderAPIClient = "X-API-Client"
	HeaderHXRequest = "HX-Request"
)

// ViewFunc produces the payload for a request. A payload may carry the
// reserved negotiate.StatusKey to select the response status.
type ViewFunc func(r *http.Request) (negotiate.Payload, error)

// RenderEvent describes one negotiated response.
type RenderEvent struct {
	// Strategy is the strategy that ran, or "" when the view failed.
	Strategy string

	// Status is the status code written to the client.
	Status int

	// Duration covers the view and the strategy.
	Duration time.Duration

	// Err is the view or strategy error, if any.
	Err error
}

// Observer receives an event for every response the handler writes.
type Observer interface {
	ObserveRender(RenderEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(RenderEvent)

// ObserveRender implements Observer.
func (f ObserverFunc) ObserveRender(ev RenderEvent) { f(ev) }

// Option configures a Handler.
type Option func(*handler)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithObserver adds an observer. Observers are called in order.
func WithObserver(o Observer) Option {
	return func(h *handler) {
		if o != nil {
			h.observers = append(h.observers, o)
		}
	}
}

// WithErrorPage sets the tree shown to browsers when rendering fails.
// The default is a short "Internal Server Error" paragraph.
func WithErrorPage(node *hiccup.Node) Option {
	return func(h *handler) { h.errorPage = node }
}

type handler struct {
	n         *negotiate.Negotiator
	view      ViewFunc
	logger    *slog.Logger
	observers []Observer
	errorPage *hiccup.Node
}

// Handler returns an http.Handler that runs view, negotiates the output
// format from the Accept header and writes the strategy's result.
//
// View errors and strategy errors both produce a 500 through RenderError.
// Strategy errors are logged with the failing strategy and payload key.
func Handler(n *negotiate.Negotiator, view ViewFunc, opts ...Option) http.Handler {
	h := &handler{
		n:         n,
		view:      view,
		logger:    slog.Default().With("component", "web"),
		errorPage: hiccup.P(nil, hiccup.Text(http.StatusText(http.StatusInternalServerError))),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	span := trace.SpanFromContext(r.Context())

	payload, err := h.view(r)
	if err != nil {
		h.logger.Error("view failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		RenderError(w, r, http.StatusText(http.StatusInternalServerError), h.errorPage, http.StatusInternalServerError)
		h.observe(RenderEvent{Status: http.StatusInternalServerError, Duration: time.Since(start), Err: err})
		return
	}

	res, err := h.n.Negotiate(negotiate.Request{
		Accept:    negotiate.SplitAccept(strings.Join(r.Header.Values("Accept"), ",")),
		APIClient: IsAPIRequest(r),
		Payload:   payload,
	})
	if err != nil {
		strategy := ""
		var rse *negotiate.RenderStrategyError
		if errors.As(err, &rse) {
			strategy = rse.Strategy
			h.logger.Error("render strategy failed",
				"path", r.URL.Path,
				"strategy", rse.Strategy,
				"key", rse.Key,
				"keys", rse.Keys,
				"error", rse.Err,
			)
		} else {
			h.logger.Error("negotiation failed", "path", r.URL.Path, "error", err)
		}
		span.SetAttributes(attribute.String("wbweb.strategy", strategy))
		RenderError(w, r, http.StatusText(http.StatusInternalServerError), h.errorPage, http.StatusInternalServerError)
		h.observe(RenderEvent{Strategy: strategy, Status: http.StatusInternalServerError, Duration: time.Since(start), Err: err})
		return
	}

	body, err := res.Bytes()
	if err != nil {
		h.logger.Error("encode response", "strategy", res.Strategy, "error", err)
		RenderError(w, r, http.StatusText(http.StatusInternalServerError), h.errorPage, http.StatusInternalServerError)
		h.observe(RenderEvent{Strategy: res.Strategy, Status: http.StatusInternalServerError, Duration: time.Since(start), Err: err})
		return
	}

	span.SetAttributes(
		attribute.String("wbweb.strategy", res.Strategy),
		attribute.Int("wbweb.status", res.Status),
	)

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Add("Vary", "Accept")
	w.WriteHeader(res.Status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}

	h.logger.Debug("rendered",
		"path", r.URL.Path,
		"strategy", res.Strategy,
		"status", res.Status,
		"bytes", len(body),
	)
	h.observe(RenderEvent{Strategy: res.Strategy, Status: res.Status, Duration: time.Since(start)})
}

func (h *handler) observe(ev RenderEvent) {
	for _, o := range h.observers {
		o.ObserveRender(ev)
	}
}
