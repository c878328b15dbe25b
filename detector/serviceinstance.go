package detector

import (
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// serviceInstance returns a detector that generates a fresh
// service.instance.id per call, for deployments that configure no stable
// instance identity. The schema URL is left empty so merging with
// detectors pinned to other semconv versions cannot conflict.
func serviceInstance() resource.Detector {
	return resource.StringDetector("", semconv.ServiceInstanceIDKey, func() (string, error) {
		return uuid.NewString(), nil
	})
}
