package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/metric"
)

// RuntimeName identifies the Go runtime metrics adapter in the catalog.
const RuntimeName = "autotel/instrumentation-runtime"

// RuntimeConfig configures the runtime metrics adapter.
// MinimumReadMemStatsInterval bounds how often memory stats are read; zero
// keeps the library default of 15s.
type RuntimeConfig struct {
	MeterProvider               metric.MeterProvider
	MinimumReadMemStatsInterval time.Duration
}

// Runtime collects Go runtime metrics (GC, goroutines, memory) once
// started. Like Host, it runs for the life of the process.
type Runtime struct {
	opts []runtime.Option
}

// NewRuntime returns a runtime metrics adapter. A nil config means
// defaults.
func NewRuntime(cfg *RuntimeConfig) *Runtime {
	if cfg == nil {
		cfg = &RuntimeConfig{}
	}
	var opts []runtime.Option
	if cfg.MeterProvider != nil {
		opts = append(opts, runtime.WithMeterProvider(cfg.MeterProvider))
	}
	if cfg.MinimumReadMemStatsInterval > 0 {
		opts = append(opts, runtime.WithMinimumReadMemStatsInterval(cfg.MinimumReadMemStatsInterval))
	}
	return &Runtime{opts: opts}
}

// Name returns the catalog identifier.
func (r *Runtime) Name() string { return RuntimeName }

// Start registers the runtime metric callbacks with the meter provider.
func (r *Runtime) Start(_ context.Context) error {
	return runtime.Start(r.opts...)
}

func runtimeRegistration() Registration {
	return Registration{
		Name:   RuntimeName,
		Module: "go.opentelemetry.io/contrib/instrumentation/runtime",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[RuntimeConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewRuntime(cfg), nil
		},
	}
}
