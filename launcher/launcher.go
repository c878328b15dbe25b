package launcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/autotel"
	"github.com/fyrsmithlabs/autotel/detector"
	"github.com/fyrsmithlabs/autotel/instrument"
	"github.com/fyrsmithlabs/autotel/internal/envflag"
)

// scopeName is the instrumentation scope for telemetry the launcher
// emits itself.
const scopeName = "github.com/fyrsmithlabs/autotel/launcher"

// Launcher wires the whole pipeline together: resource detection,
// trace and metric providers, propagators, and the instrumentation set.
//
// Telemetry failures do not crash the application; they degrade gracefully.
type Launcher struct {
	config *Config
	logger *zap.Logger

	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *prometheus.Registry

	instrumentations []instrument.Instrumentation

	// Health tracking
	healthy  atomic.Bool
	degraded atomic.Bool
}

// Option configures New.
type Option func(*options)

type options struct {
	logger          *zap.Logger
	lookup          envflag.LookupFunc
	instrumentation autotel.Config
	spanExporter    trace.SpanExporter
	metricExporter  sdkmetric.Exporter
}

// WithLogger sets the logger for diagnostics emitted during startup.
// Defaults to zap.L().
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLookupEnv overrides how environment variables are read. Defaults to
// os.LookupEnv. The override reaches the detector selector and the
// instrumentation assembler; the OTLP exporters and propagator always read
// the process environment.
func WithLookupEnv(lookup envflag.LookupFunc) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// WithInstrumentationConfig supplies per-instrumentation settings, keyed by
// full instrumentation name. See autotel.Instrumentations for the
// resolution rules.
func WithInstrumentationConfig(cfg autotel.Config) Option {
	return func(o *options) {
		o.instrumentation = cfg
	}
}

// WithSpanExporter replaces the OTLP trace exporter. Tests use it to
// capture spans in memory.
func WithSpanExporter(exp trace.SpanExporter) Option {
	return func(o *options) {
		o.spanExporter = exp
	}
}

// WithMetricExporter replaces the OTLP metric exporter. Tests use it to
// capture metrics in memory.
func WithMetricExporter(exp sdkmetric.Exporter) Option {
	return func(o *options) {
		o.metricExporter = exp
	}
}

func newLauncherOptions(opts []Option) options {
	o := options{
		logger: zap.L(),
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a Launcher and initializes providers.
//
// Initialization order: resource detectors, tracer provider, meter
// provider, propagators, instrumentations. Successfully created providers
// are installed as the otel globals so instrumentations pick them up.
//
// If telemetry is disabled in config, returns an inert instance. A nil cfg
// uses NewDefaultConfig. Only an invalid config fails; provider
// initialization errors degrade the instance instead.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Launcher, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid launcher config: %w", err)
	}

	o := newLauncherOptions(opts)

	l := &Launcher{
		config: cfg,
		logger: o.logger,
	}
	l.healthy.Store(true)

	if !cfg.Enabled {
		return l, nil
	}

	detectors := detector.FromEnv(
		detector.WithLogger(o.logger),
		detector.WithLookupEnv(o.lookup),
	)

	res, err := newResource(ctx, cfg, detectors)
	if err != nil {
		// Partial resources are still usable; schema conflicts and
		// detector failures leave the rest of the pipeline intact.
		l.setDegraded("resource detection incomplete", err)
	}
	if res == nil {
		res = resource.Empty()
	}

	tp, err := newTracerProvider(ctx, cfg, res, o.spanExporter)
	if err != nil {
		l.setDegraded("tracer provider failed", err)
	} else {
		l.tracerProvider = tp
		otel.SetTracerProvider(tp)
	}

	mp, registry, err := newMeterProvider(ctx, cfg, res, o.metricExporter)
	if err != nil {
		l.setDegraded("meter provider failed", err)
	} else if mp != nil {
		l.meterProvider = mp
		l.registry = registry
		otel.SetMeterProvider(mp)
	}

	// Propagator selection honors OTEL_PROPAGATORS; default is W3C Trace
	// Context plus Baggage.
	propagator, err := autoprop.NewTextMapPropagator()
	if err != nil {
		l.setDegraded("propagator selection failed", err)
		propagator = propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)
	}
	otel.SetTextMapPropagator(propagator)

	l.instrumentations = autotel.Instrumentations(o.instrumentation,
		autotel.WithLogger(o.logger),
		autotel.WithLookupEnv(o.lookup),
	)

	for _, ins := range l.instrumentations {
		starter, ok := ins.(instrument.Starter)
		if !ok {
			continue
		}
		if err := starter.Start(ctx); err != nil {
			l.setDegraded("instrumentation start failed", err,
				zap.String("instrumentation", ins.Name()))
		}
	}

	o.logger.Info("telemetry initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("protocol", cfg.Protocol),
		zap.Int("instrumentations", len(l.instrumentations)),
		zap.Int("detectors", len(detectors)),
	)

	return l, nil
}

// Tracer returns a tracer for the given instrumentation scope. An empty
// name selects the launcher's own scope.
//
// Returns a no-op tracer if telemetry is disabled or degraded.
func (l *Launcher) Tracer(name string, opts ...oteltrace.TracerOption) oteltrace.Tracer {
	if name == "" {
		name = scopeName
		opts = append(opts, oteltrace.WithInstrumentationVersion(autotel.Version()))
	}
	if l == nil || l.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return l.tracerProvider.Tracer(name, opts...)
}

// Meter returns a meter for the given instrumentation scope. An empty name
// selects the launcher's own scope.
//
// Returns a no-op meter if metrics are disabled.
func (l *Launcher) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if name == "" {
		name = scopeName
		opts = append(opts, metric.WithInstrumentationVersion(autotel.Version()))
	}
	if l == nil || l.meterProvider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return l.meterProvider.Meter(name, opts...)
}

// Instrumentations returns the resolved instrumentation set, in catalog
// order. Callers pull individual adapters out of it to wire middleware,
// stats handlers, and client wrappers.
func (l *Launcher) Instrumentations() []instrument.Instrumentation {
	if l == nil {
		return nil
	}
	return l.instrumentations
}

// Handler returns the Prometheus scrape handler when the "prometheus"
// metrics exporter is configured, and nil otherwise.
func (l *Launcher) Handler() http.Handler {
	if l == nil || l.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(l.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down all telemetry providers.
//
// Should be called during application shutdown to flush pending telemetry.
// Uses the shutdown timeout from config when ctx has no deadline.
func (l *Launcher) Shutdown(ctx context.Context) error {
	if l == nil {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok && l.config != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.Shutdown.Timeout.Duration())
		defer cancel()
	}

	var errs []error

	if l.tracerProvider != nil {
		if err := l.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}

	if l.meterProvider != nil {
		if err := l.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	l.healthy.Store(false)
	return errors.Join(errs...)
}

// ForceFlush immediately exports all pending telemetry data.
//
// Useful for testing or before critical operations.
func (l *Launcher) ForceFlush(ctx context.Context) error {
	if l == nil {
		return nil
	}

	var errs []error

	if l.tracerProvider != nil {
		if err := l.tracerProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace flush: %w", err))
		}
	}

	if l.meterProvider != nil {
		if err := l.meterProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter flush: %w", err))
		}
	}

	return errors.Join(errs...)
}

// HealthStatus reports the launcher's current condition.
type HealthStatus struct {
	Healthy  bool
	Degraded bool
}

// Health returns the current telemetry health status.
func (l *Launcher) Health() HealthStatus {
	if l == nil {
		return HealthStatus{Healthy: false, Degraded: true}
	}
	return HealthStatus{
		Healthy:  l.healthy.Load(),
		Degraded: l.degraded.Load(),
	}
}

// IsEnabled returns true if telemetry is enabled and healthy.
func (l *Launcher) IsEnabled() bool {
	if l == nil || l.config == nil {
		return false
	}
	return l.config.Enabled && l.healthy.Load()
}

// setDegraded marks the launcher as degraded and logs the cause.
func (l *Launcher) setDegraded(msg string, err error, fields ...zap.Field) {
	l.degraded.Store(true)
	l.logger.Warn(msg, append(fields, zap.Error(err))...)
}
