package launcher

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/autotel"
	"github.com/fyrsmithlabs/autotel/instrument"
)

// hermeticEnv keeps New away from the real environment: no resource
// detectors and no instrumentations that start background collectors.
func hermeticEnv() func(string) (string, bool) {
	env := map[string]string{
		"OTEL_NODE_RESOURCE_DETECTORS":        "none",
		"OTEL_NODE_DISABLED_INSTRUMENTATIONS": "host,runtime",
	}
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// captureExporter is an in-memory metric exporter for the
// WithMetricExporter seam.
type captureExporter struct {
	mu      sync.Mutex
	records []metricdata.ResourceMetrics
}

func (e *captureExporter) Temporality(sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

func (e *captureExporter) Aggregation(kind sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(kind)
}

func (e *captureExporter) Export(_ context.Context, rm *metricdata.ResourceMetrics) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = append(e.records, *rm)
	return nil
}

func (e *captureExporter) ForceFlush(context.Context) error { return nil }

func (e *captureExporter) Shutdown(context.Context) error { return nil }

func (e *captureExporter) Records() []metricdata.ResourceMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.records
}

func TestNew_Disabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	l, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, l)

	// Should return no-op providers
	assert.NotNil(t, l.Tracer("test"))
	assert.NotNil(t, l.Meter("test"))
	assert.False(t, l.IsEnabled())
	assert.Empty(t, l.Instrumentations())
	assert.Nil(t, l.Handler())

	require.NoError(t, l.Shutdown(context.Background()))
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	l, err := New(context.Background(), nil,
		WithSpanExporter(tracetest.NewInMemoryExporter()),
		WithMetricExporter(&captureExporter{}),
		WithLookupEnv(hermeticEnv()),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.True(t, l.IsEnabled())

	require.NoError(t, l.Shutdown(context.Background()))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Sampling.Rate = 2.0

	l, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, l)
	assert.Contains(t, err.Error(), "invalid launcher config")
}

func TestNew_CapturesSpans(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.ServiceName = "launcher-test"

	exporter := tracetest.NewInMemoryExporter()
	l, err := New(context.Background(), cfg,
		WithSpanExporter(exporter),
		WithLookupEnv(hermeticEnv()),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, l.Shutdown(context.Background())) }()

	// host and runtime are disabled by the environment
	assert.Len(t, l.Instrumentations(), 7)

	health := l.Health()
	assert.True(t, health.Healthy)
	assert.False(t, health.Degraded)

	tracer := l.Tracer("")
	_, span := tracer.Start(context.Background(), "boot-span")
	span.End()

	require.NoError(t, l.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "boot-span", spans[0].Name)
	assert.Equal(t, scopeName, spans[0].InstrumentationScope.Name)
	assert.Equal(t, autotel.Version(), spans[0].InstrumentationScope.Version)

	var foundServiceName bool
	for _, attr := range spans[0].Resource.Attributes() {
		if string(attr.Key) == "service.name" {
			assert.Equal(t, "launcher-test", attr.Value.AsString())
			foundServiceName = true
		}
	}
	assert.True(t, foundServiceName, "service.name attribute not found")
}

func TestNew_InstrumentationConfigApplies(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Metrics.Enabled = false

	l, err := New(context.Background(), cfg,
		WithSpanExporter(tracetest.NewInMemoryExporter()),
		WithLookupEnv(hermeticEnv()),
		WithLogger(zaptest.NewLogger(t)),
		WithInstrumentationConfig(autotel.Config{
			instrument.EchoName:  {Enabled: autotel.Bool(false)},
			instrument.MongoName: {Enabled: autotel.Bool(false)},
		}),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, l.Shutdown(context.Background())) }()

	names := make([]string, 0, len(l.Instrumentations()))
	for _, ins := range l.Instrumentations() {
		names = append(names, ins.Name())
	}
	assert.NotContains(t, names, instrument.EchoName)
	assert.NotContains(t, names, instrument.MongoName)
	assert.Contains(t, names, instrument.HTTPName)
}

func TestNew_SetsGlobalTracerProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := NewDefaultConfig()
	cfg.Metrics.Enabled = false

	l, err := New(context.Background(), cfg,
		WithSpanExporter(tracetest.NewInMemoryExporter()),
		WithLookupEnv(hermeticEnv()),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, l.Shutdown(context.Background())) }()

	assert.Same(t, l.tracerProvider, otel.GetTracerProvider())
}

func TestNew_PrometheusHandler(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Metrics.Exporter = "prometheus"

	l, err := New(context.Background(), cfg,
		WithSpanExporter(tracetest.NewInMemoryExporter()),
		WithLookupEnv(hermeticEnv()),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, l.Shutdown(context.Background())) }()

	handler := l.Handler()
	require.NotNil(t, handler)

	meter := l.Meter("test")
	counter, err := meter.Int64Counter("autotel_requests")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "autotel_requests")
}

func TestNew_MetricExporterOverride(t *testing.T) {
	cfg := NewDefaultConfig()

	exporter := &captureExporter{}
	l, err := New(context.Background(), cfg,
		WithSpanExporter(tracetest.NewInMemoryExporter()),
		WithMetricExporter(exporter),
		WithLookupEnv(hermeticEnv()),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, l.Shutdown(context.Background())) }()

	counter, err := l.Meter("test").Int64Counter("boot_count")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	require.NoError(t, l.ForceFlush(context.Background()))

	records := exporter.Records()
	require.NotEmpty(t, records)
	require.NotEmpty(t, records[0].ScopeMetrics)
	assert.Equal(t, "boot_count", records[0].ScopeMetrics[0].Metrics[0].Name)
}

func TestLauncher_ShutdownMarksUnhealthy(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	l, err := New(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, l.Shutdown(context.Background()))

	health := l.Health()
	assert.False(t, health.Healthy)
}

func TestLauncher_NilSafe(t *testing.T) {
	var l *Launcher

	assert.NotPanics(t, func() {
		_ = l.Tracer("test")
		_ = l.Meter("test")
		_ = l.Instrumentations()
		_ = l.Handler()
		_ = l.Health()
		_ = l.IsEnabled()
		_ = l.Shutdown(context.Background())
		_ = l.ForceFlush(context.Background())
	})

	health := l.Health()
	assert.False(t, health.Healthy)
	assert.True(t, health.Degraded)
}

func TestNewTestLauncher(t *testing.T) {
	tl := NewTestLauncher()

	tracer := tl.Tracer("test")
	_, span := tracer.Start(context.Background(), "test-span")
	span.End()

	tl.AssertSpanExists(t, "test-span")
	assert.Nil(t, tl.SpanByName("missing-span"))

	meter := tl.Meter("test")
	counter, err := meter.Int64Counter("test_counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	rm, err := tl.CollectMetrics(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rm.ScopeMetrics)

	assert.True(t, tl.IsEnabled())
	require.NoError(t, tl.Shutdown(context.Background()))
}

func TestFXModule_GraphIsValid(t *testing.T) {
	err := fx.ValidateApp(
		FXModule,
		fx.NopLogger,
		fx.Provide(func() *Config { return NewDefaultConfig() }),
		fx.Invoke(func(l *Launcher) {}),
	)
	require.NoError(t, err)
}
