package instrument

import (
	"context"
	"net/http/httptrace"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
)

// HTTPTraceName identifies the httptrace adapter in the catalog.
const HTTPTraceName = "autotel/instrumentation-httptrace"

// HTTPTraceConfig configures the httptrace adapter. WithoutSubSpans
// collapses the connection-phase events (DNS, connect, TLS) into
// annotations on the parent span instead of child spans.
type HTTPTraceConfig struct {
	WithoutSubSpans bool
	RedactedHeaders []string
	InsecureHeaders bool
}

// HTTPTrace produces httptrace.ClientTrace hooks that record low-level
// HTTP connection events as spans.
type HTTPTrace struct {
	opts []otelhttptrace.ClientTraceOption
}

// NewHTTPTrace returns an httptrace adapter. A nil config means defaults.
func NewHTTPTrace(cfg *HTTPTraceConfig) *HTTPTrace {
	if cfg == nil {
		cfg = &HTTPTraceConfig{}
	}
	var opts []otelhttptrace.ClientTraceOption
	if cfg.WithoutSubSpans {
		opts = append(opts, otelhttptrace.WithoutSubSpans())
	}
	if len(cfg.RedactedHeaders) > 0 {
		opts = append(opts, otelhttptrace.WithRedactedHeaders(cfg.RedactedHeaders...))
	}
	if cfg.InsecureHeaders {
		opts = append(opts, otelhttptrace.WithInsecureHeaders())
	}
	return &HTTPTrace{opts: opts}
}

// Name returns the catalog identifier.
func (h *HTTPTrace) Name() string { return HTTPTraceName }

// ClientTrace returns hooks to attach to an outgoing request context:
//
//	ctx = httptrace.WithClientTrace(ctx, adapter.ClientTrace(ctx))
func (h *HTTPTrace) ClientTrace(ctx context.Context) *httptrace.ClientTrace {
	return otelhttptrace.NewClientTrace(ctx, h.opts...)
}

func httptraceRegistration() Registration {
	return Registration{
		Name:   HTTPTraceName,
		Module: "go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[HTTPTraceConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewHTTPTrace(cfg), nil
		},
	}
}
