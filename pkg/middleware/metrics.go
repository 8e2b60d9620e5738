package middleware

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"github.com/wbweb-dev/wbweb/pkg/negotiate"
	"github.com/wbweb-dev/wbweb/pkg/web"
)

// MetricsConfig configures the Prometheus render metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "wbweb").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus render metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "wbweb",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records negotiated renders. It implements web.Observer.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
}

var _ web.Observer = (*Metrics)(nil)

// NewMetrics registers the render collectors and returns an observer that
// feeds them.
//
// Metrics collected:
//   - wbweb_renders_total: Counter of responses by strategy and status
//   - wbweb_render_duration_seconds: Histogram of view plus render time
//   - wbweb_render_errors_total: Counter of failures by strategy and kind
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	h := web.Handler(n, view, web.WithObserver(m))
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Registering twice against the same registry panics, as with any
// promauto collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of negotiated responses",
			ConstLabels: config.ConstLabels,
		}, []string{"strategy", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "View and render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"strategy"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of failed renders",
			ConstLabels: config.ConstLabels,
		}, []string{"strategy", "kind"}),
	}
}

// ObserveRender implements web.Observer.
func (m *Metrics) ObserveRender(ev web.RenderEvent) {
	strategy := ev.Strategy
	if strategy == "" {
		strategy = "none"
	}

	m.rendersTotal.WithLabelValues(strategy, strconv.Itoa(ev.Status)).Inc()
	m.renderDuration.WithLabelValues(strategy).Observe(ev.Duration.Seconds())
	if ev.Err != nil {
		m.renderErrors.WithLabelValues(strategy, categorizeError(ev)).Inc()
	}
}

// categorizeError returns a low-cardinality label for a failed render.
func categorizeError(ev web.RenderEvent) string {
	var mne *hiccup.MalformedNodeError
	var rse *negotiate.RenderStrategyError
	switch {
	case ev.Strategy == "":
		return "view"
	case errors.As(ev.Err, &mne):
		return "malformed"
	case errors.As(ev.Err, &rse) && rse.Key != "":
		return "payload"
	case rse != nil:
		return "strategy"
	default:
		return "internal"
	}
}
