// Package autotel assembles OpenTelemetry instrumentation for Go services
// from a fixed catalog, resolving what to enable from caller configuration
// and environment variables.
//
// The module mirrors the zero-decision setup of the OpenTelemetry
// auto-instrumentation distributions: one call yields every bundled
// instrumentation, and operators tune the set per deployment through the
// environment without touching code.
//
// # Quickstart
//
//	instrumentations := autotel.Instrumentations(nil)
//
// returns adapters for the full catalog. Callers that want to configure or
// drop entries pass a Config keyed by catalog identifier:
//
//	instrumentations := autotel.Instrumentations(autotel.Config{
//		"autotel/instrumentation-sarama": {Enabled: autotel.Bool(false)},
//		"autotel/instrumentation-http": {
//			Options: &instrument.HTTPConfig{ServerName: "checkout"},
//		},
//	})
//
// The launcher package builds on this to bring up the whole SDK (resource
// detection, exporters, propagators, instrumentation) in one call.
//
// # Environment
//
//	OTEL_INSTRUMENTATION_<SUFFIX>_ENABLED   per-entry switch, "true"/"false"
//	OTEL_NODE_ENABLED_INSTRUMENTATIONS      short-name allow list
//	OTEL_NODE_DISABLED_INSTRUMENTATIONS     short-name deny list
//	OTEL_NODE_RESOURCE_DETECTORS            detector selection (package detector)
//
// The per-entry switch is the strongest signal and flips an entry in
// either direction; the lists come next, then caller configuration, then
// the default of enabled. <SUFFIX> derives from the identifier:
// "autotel/instrumentation-aws-sdk" becomes AWS_SDK.
//
// Misconfiguration is never fatal. Unknown identifiers, unknown list
// names and failing adapter constructors are reported to the diagnostic
// sink (an injectable zap logger) and skipped, so a typo costs one
// instrumentation, not the process.
package autotel
