// Package instrument provides the adapter catalog: thin wrappers over the
// OpenTelemetry contrib instrumentation libraries, each registered under a
// stable identifier of the form "autotel/instrumentation-<short-name>".
//
// # Adapters
//
//	aws-sdk    AWS SDK v2 middleware            (otelaws)
//	echo       Echo web framework middleware    (otelecho)
//	grpc       gRPC client/server stats handler (otelgrpc)
//	host       host metrics collector           (host)
//	http       net/http handler and transport   (otelhttp)
//	httptrace  httptrace client spans           (otelhttptrace)
//	mongo      MongoDB command monitor          (otelmongo)
//	runtime    Go runtime metrics collector     (runtime)
//	sarama     Kafka producer/consumer wrappers (otelsarama)
//
// Adapters hold resolved configuration and hand out telemetry artifacts
// (middleware, handlers, monitors) on demand. They never install anything
// globally; unset provider fields fall back to the otel globals inside the
// contrib libraries themselves.
//
// Constructors take an opaque options payload so the selection layer can
// pass caller configuration through without knowing adapter types. Each
// accepts nil (defaults), its own config struct, or a pointer to it;
// anything else fails with ErrConfigType.
package instrument
