package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wbweb-dev/wbweb/internal/config"
	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"github.com/wbweb-dev/wbweb/pkg/middleware"
	"github.com/wbweb-dev/wbweb/pkg/negotiate"
	"github.com/wbweb-dev/wbweb/pkg/pagepath"
	"github.com/wbweb-dev/wbweb/pkg/web"
)

func serveCmd(a *app) *cobra.Command {
	var (
		port     int
		host     string
		pagesDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve page trees with content negotiation",
		Long: `Serve the trees in the pages directory over HTTP.

Routes:
  GET /pages/{path}   <pagesDir>/<path>.json, .yaml or .yml, negotiated
  GET /healthz        liveness probe
  GET /metrics        Prometheus metrics (when enabled)

Browsers get HTML; clients sending Accept: application/json get the
component JSON; X-API-Client or HX-Request marks API clients.

Examples:
  wbweb serve
  wbweb serve --port=9000 --pages=./site`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			if host != "" {
				a.cfg.Server.Host = host
			}
			if pagesDir != "" {
				a.cfg.Server.PagesDir = pagesDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a.cfg, a.logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&pagesDir, "pages", "", "Pages directory (default from config)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newServer(cfg, logger, reg),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "pages", cfg.PagesPath())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer builds the router. reg receives the render metrics and backs
// the metrics endpoint.
func newServer(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	handlerOpts := []web.Option{
		web.WithLogger(logger.With("component", "web")),
		web.WithErrorPage(hiccup.Main(nil,
			hiccup.H1(nil, hiccup.Text("Something went wrong")),
			hiccup.P(nil, hiccup.Text("The page could not be rendered.")),
		)),
	}
	if cfg.Metrics.Enabled {
		m := middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(reg),
		)
		handlerOpts = append(handlerOpts, web.WithObserver(m))
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	n := negotiate.New(treeFromPayload,
		negotiate.WithRenderer(rendererFor(cfg)),
		negotiate.WithStructured(&negotiate.StructuredStrategy{Build: treeFromPayload}),
		negotiate.WithMediaTypes(cfg.MediaTypes()),
	)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/pages/*", web.Handler(n, pageView(cfg.PagesPath(), cfg.Render.MaxDepth), handlerOpts...))

	return r
}

// pageView loads <dir>/<path>.{json,yaml,yml} on every request. Unknown
// or invalid page paths produce a 404 through the reserved status key.
func pageView(dir string, maxDepth int) web.ViewFunc {
	return func(r *http.Request) (negotiate.Payload, error) {
		name := chi.URLParam(r, "*")
		base, err := pagepath.Resolve(dir, name)
		if err != nil {
			return notFound(name), nil
		}

		for _, ext := range []string{".json", ".yaml", ".yml"} {
			path := base + ext
			if _, err := os.Stat(path); err != nil {
				continue
			}
			node, err := loadTree(path, "", nil, maxDepth)
			if err != nil {
				return nil, err
			}
			return negotiate.Payload{"name": name, treeKey: node}, nil
		}
		return notFound(name), nil
	}
}

func notFound(name string) negotiate.Payload {
	return negotiate.Payload{
		"name":              name,
		negotiate.StatusKey: http.StatusNotFound,
		treeKey: hiccup.Main(nil,
			hiccup.H1(nil, hiccup.Text("Not Found")),
			hiccup.P(nil, hiccup.Textf("No page named %q.", name)),
		),
	}
}
