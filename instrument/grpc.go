package instrument

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/stats"
)

// GRPCName identifies the gRPC adapter in the catalog.
const GRPCName = "autotel/instrumentation-grpc"

// GRPCConfig configures the gRPC adapter.
type GRPCConfig struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Propagator     propagation.TextMapPropagator
}

// GRPC produces stats handlers that trace gRPC calls on either side of the
// connection.
type GRPC struct {
	opts []otelgrpc.Option
}

// NewGRPC returns a gRPC adapter. A nil config means defaults.
func NewGRPC(cfg *GRPCConfig) *GRPC {
	if cfg == nil {
		cfg = &GRPCConfig{}
	}
	var opts []otelgrpc.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgrpc.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		opts = append(opts, otelgrpc.WithMeterProvider(cfg.MeterProvider))
	}
	if cfg.Propagator != nil {
		opts = append(opts, otelgrpc.WithPropagators(cfg.Propagator))
	}
	return &GRPC{opts: opts}
}

// Name returns the catalog identifier.
func (g *GRPC) Name() string { return GRPCName }

// ServerHandler returns a stats handler for grpc.NewServer:
//
//	grpc.NewServer(grpc.StatsHandler(adapter.ServerHandler()))
func (g *GRPC) ServerHandler() stats.Handler {
	return otelgrpc.NewServerHandler(g.opts...)
}

// ClientHandler returns a stats handler for grpc.NewClient.
func (g *GRPC) ClientHandler() stats.Handler {
	return otelgrpc.NewClientHandler(g.opts...)
}

func grpcRegistration() Registration {
	return Registration{
		Name:   GRPCName,
		Module: "go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[GRPCConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewGRPC(cfg), nil
		},
	}
}
