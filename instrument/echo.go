package instrument

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// EchoName identifies the Echo framework adapter in the catalog.
const EchoName = "autotel/instrumentation-echo"

// EchoConfig configures the Echo adapter. Skipper can exclude routes such
// as health checks from tracing.
type EchoConfig struct {
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
	Skipper        middleware.Skipper
}

// Echo produces tracing middleware for the Echo web framework.
type Echo struct {
	opts []otelecho.Option
}

// NewEcho returns an Echo adapter. A nil config means defaults.
func NewEcho(cfg *EchoConfig) *Echo {
	if cfg == nil {
		cfg = &EchoConfig{}
	}
	var opts []otelecho.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelecho.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.Propagator != nil {
		opts = append(opts, otelecho.WithPropagators(cfg.Propagator))
	}
	if cfg.Skipper != nil {
		opts = append(opts, otelecho.WithSkipper(cfg.Skipper))
	}
	return &Echo{opts: opts}
}

// Name returns the catalog identifier.
func (e *Echo) Name() string { return EchoName }

// Middleware returns tracing middleware for an Echo router. The service
// name becomes the span's peer service attribute.
func (e *Echo) Middleware(service string) echo.MiddlewareFunc {
	return otelecho.Middleware(service, e.opts...)
}

func echoRegistration() Registration {
	return Registration{
		Name:   EchoName,
		Module: "go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[EchoConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewEcho(cfg), nil
		},
	}
}
