// Package api configures and exposes the HTTP server, routes, metrics, docs
// and related middleware for the domain enrichment service.
package api

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"domainintel/internal/api/handler/v1handler"
	"domainintel/internal/config"
	"domainintel/pkg/controller"
	"domainintel/pkg/logger"

	"github.com/go-faster/jx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// openAPIDocument is served at /specs/v1.yaml and rendered by the docs UI.
//
//go:embed specs/v1.yaml
var openAPIDocument []byte

// Timeouts bound the phases of an HTTP exchange. Zero leaves the net/http
// behavior in place.
type Timeouts struct {
	Read       time.Duration
	ReadHeader time.Duration
	Write      time.Duration
	Idle       time.Duration
	// Request caps handler time; expired requests get a 503 TIMEOUT envelope.
	Request time.Duration
}

// Options configure the API server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr     string
	Timeouts Timeouts
	// MaxHeaderBytes caps request line plus headers. Zero uses http.DefaultMaxHeaderBytes.
	MaxHeaderBytes int
	// MetricsPath defaults to /metrics.
	MetricsPath string
	// Registry backs the metrics endpoint and the OpenTelemetry exporter.
	// Nil selects the prometheus default registry.
	Registry *prometheus.Registry
}

// NewOptions reads the HTTP section of cfg.
func NewOptions(cfg *config.Config) Options {
	h := cfg.HTTP

	return Options{
		Addr: h.Addr,
		Timeouts: Timeouts{
			Read:       h.ReadTimeout,
			ReadHeader: h.ReadHeaderTimeout,
			Write:      h.WriteTimeout,
			Idle:       h.IdleTimeout,
			Request:    h.RequestTimeout,
		},
		MaxHeaderBytes: h.MaxHeaderBytes,
		MetricsPath:    h.MetricsPath,
	}
}

// Deps are the collaborators behind the API routes.
type Deps struct {
	v1handler.Deps
}

// timeoutBody is written by http.TimeoutHandler when a request runs out of time.
func timeoutBody() string {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.Obj(func(e *jx.Encoder) {
		e.Field("error", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("code", func(e *jx.Encoder) { e.Str("TIMEOUT") })
				e.Field("message", func(e *jx.Encoder) { e.Str("request timed out") })
			})
		})
	})

	return e.String()
}

// NewHandler returns the service mux: the v1 routes, health check, metrics,
// OpenAPI document with its docs UI, and pprof. API counters are recorded
// through an OpenTelemetry meter exported into the same prometheus registry.
func NewHandler(deps Deps, opts Options) (http.Handler, error) {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	mux := http.NewServeMux()

	mux.Handle("GET "+metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	exp, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		controller.WriteJSON(w, http.StatusOK, []byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(openAPIDocument)
	})
	mux.Handle("/v1/docs/", v5emb.New("Domain Intelligence Service", "/specs/v1.yaml", "/v1/docs/"))

	v1, err := v1handler.New(deps.Deps, mp.Meter("domainintel/internal/api"))
	if err != nil {
		return nil, fmt.Errorf("could not create v1 handler: %w", err)
	}
	v1.Register(mux)

	controller.MountPprof(mux, "/debug/pprof")

	// outermost first: logger, CORS, recover
	return controller.WithLogger(controller.WithCORS()(controller.WithRecover(mux))), nil
}

// NewServer builds the *http.Server serving NewHandler.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	h, err := NewHandler(deps, opts)
	if err != nil {
		return nil, err
	}
	t := opts.Timeouts
	if t.Request > 0 {
		h = http.TimeoutHandler(h, t.Request, timeoutBody())
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: t.ReadHeader,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(logger.Slog(context.Background()).Handler(), slog.LevelError),
	}, nil
}
