// Package launcher boots a complete OpenTelemetry pipeline: resource
// detection, OTLP trace and metric export, propagator selection, and the
// instrumentation set from the autotel catalog.
//
// # Usage
//
// Load config and create a launcher:
//
//	cfg, err := launcher.Load("autotel.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	l, err := launcher.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Shutdown(ctx)
//
// Use the launcher's tracer and meter:
//
//	tracer := l.Tracer("")
//	ctx, span := tracer.Start(ctx, "checkout")
//	defer span.End()
//
// # Configuration
//
//	enabled: true
//	endpoint: "localhost:4317"
//	protocol: "grpc"
//	insecure: true
//	service_name: "checkout"
//	sampling:
//	  rate: 1.0  # 100% in dev, lower in prod
//	metrics:
//	  enabled: true
//	  exporter: "otlp"  # or "prometheus"
//	  export_interval: "15s"
//	shutdown:
//	  timeout: "5s"
//	logging:
//	  level: "info"
//	  format: "json"
//	  otel: false
//
// Every key can also be set through AUTOTEL_* environment variables
// (AUTOTEL_ENDPOINT, AUTOTEL_SAMPLING_RATE, ...), which override the file.
// The standard OTEL_SERVICE_NAME, OTEL_EXPORTER_OTLP_ENDPOINT and
// OTEL_EXPORTER_OTLP_PROTOCOL variables are honored between the two.
//
// Which instrumentations and resource detectors run is controlled
// separately, through the variables documented in the autotel and detector
// packages.
//
// # Error Handling
//
// Telemetry failures do not crash the application. If a provider cannot be
// initialized, the launcher degrades gracefully; Health reports the
// condition.
//
// # Testing
//
// Use TestLauncher for tests:
//
//	tl := launcher.NewTestLauncher()
//	tracer := tl.Tracer("test")
//	_, span := tracer.Start(ctx, "test-span")
//	span.End()
//	tl.AssertSpanExists(t, "test-span")
package launcher
