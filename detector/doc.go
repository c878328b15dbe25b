// Package detector selects OpenTelemetry resource detectors from a fixed
// catalog via the OTEL_NODE_RESOURCE_DETECTORS environment variable.
//
// The catalog holds twelve detectors: the SDK built-ins (container, env,
// host, os, process), a generated service.instance.id, and the cloud
// provider detectors for AWS (ec2, ecs, eks, lambda), Azure (azurevm) and
// GCP (gcp). Selection never fails: unknown tokens are logged and
// skipped, and an empty selection is expressed as "none".
//
// Typical use feeds the selection straight into the SDK:
//
//	res, err := resource.New(ctx,
//		resource.WithDetectors(detector.FromEnv()...),
//	)
//
// Detectors are selected here but not run; Detect happens inside
// resource.New, where a detector that fails on a foreign platform (the
// ec2 detector off AWS, say) contributes partial or no attributes without
// sinking the others.
package detector
