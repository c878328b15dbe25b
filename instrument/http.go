package instrument

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// HTTPName identifies the net/http adapter in the catalog.
const HTTPName = "autotel/instrumentation-http"

// HTTPConfig configures the net/http adapter. Filter, when set, decides
// per request whether to trace; returning false skips the request.
type HTTPConfig struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Propagator     propagation.TextMapPropagator
	ServerName     string
	Filter         func(*http.Request) bool
}

// HTTP wraps net/http servers and clients with tracing and request
// metrics.
type HTTP struct {
	opts []otelhttp.Option
}

// NewHTTP returns a net/http adapter. A nil config means defaults.
func NewHTTP(cfg *HTTPConfig) *HTTP {
	if cfg == nil {
		cfg = &HTTPConfig{}
	}
	var opts []otelhttp.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}
	if cfg.Propagator != nil {
		opts = append(opts, otelhttp.WithPropagators(cfg.Propagator))
	}
	if cfg.ServerName != "" {
		opts = append(opts, otelhttp.WithServerName(cfg.ServerName))
	}
	if cfg.Filter != nil {
		opts = append(opts, otelhttp.WithFilter(otelhttp.Filter(cfg.Filter)))
	}
	return &HTTP{opts: opts}
}

// Name returns the catalog identifier.
func (h *HTTP) Name() string { return HTTPName }

// Handler wraps an http.Handler, starting a server span per request. The
// operation string names spans for requests that carry no route pattern.
func (h *HTTP) Handler(handler http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(handler, operation, h.opts...)
}

// Transport wraps an http.RoundTripper with client spans and context
// propagation. A nil base uses http.DefaultTransport.
func (h *HTTP) Transport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(base, h.opts...)
}

func httpRegistration() Registration {
	return Registration{
		Name:   HTTPName,
		Module: "go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[HTTPConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewHTTP(cfg), nil
		},
	}
}
