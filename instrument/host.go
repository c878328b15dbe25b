package instrument

import (
	"context"

	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/otel/metric"
)

// HostName identifies the host metrics adapter in the catalog.
const HostName = "autotel/instrumentation-host"

// HostConfig configures the host metrics adapter.
type HostConfig struct {
	MeterProvider metric.MeterProvider
}

// Host collects host-level metrics (CPU, memory, network) once started.
// There is no stop: the collector runs for the life of the process, which
// matches how the underlying library behaves.
type Host struct {
	opts []host.Option
}

// NewHost returns a host metrics adapter. A nil config means defaults.
func NewHost(cfg *HostConfig) *Host {
	if cfg == nil {
		cfg = &HostConfig{}
	}
	var opts []host.Option
	if cfg.MeterProvider != nil {
		opts = append(opts, host.WithMeterProvider(cfg.MeterProvider))
	}
	return &Host{opts: opts}
}

// Name returns the catalog identifier.
func (h *Host) Name() string { return HostName }

// Start registers the host metric callbacks with the meter provider.
func (h *Host) Start(_ context.Context) error {
	return host.Start(h.opts...)
}

func hostRegistration() Registration {
	return Registration{
		Name:   HostName,
		Module: "go.opentelemetry.io/contrib/instrumentation/host",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[HostConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewHost(cfg), nil
		},
	}
}
