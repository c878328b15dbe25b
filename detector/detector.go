package detector

import (
	"context"
	"fmt"
	"os"
	"strings"

	ec2 "go.opentelemetry.io/contrib/detectors/aws/ec2"
	ecs "go.opentelemetry.io/contrib/detectors/aws/ecs"
	eks "go.opentelemetry.io/contrib/detectors/aws/eks"
	lambda "go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/detectors/azure/azurevm"
	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/autotel/internal/envflag"
)

// EnvVar selects which catalog detectors FromEnv returns. The name is kept
// compatible with the other OpenTelemetry auto-instrumentation
// distributions so one deployment manifest can configure them all.
const EnvVar = "OTEL_NODE_RESOURCE_DETECTORS"

// entry pairs a selection token with its detector.
type entry struct {
	token string
	det   resource.Detector
}

// catalog returns the detector catalog in its fixed order. The order is
// load-bearing: FromEnv results follow it regardless of token order in the
// environment value, and merged resources resolve attribute collisions by
// it (later detectors win in resource.New).
func catalog() []entry {
	return []entry{
		{"container", optionDetector{resource.WithContainer()}},
		{"env", optionDetector{resource.WithFromEnv()}},
		{"host", optionDetector{resource.WithHost()}},
		{"os", optionDetector{resource.WithOS()}},
		{"serviceinstance", serviceInstance()},
		{"process", optionDetector{resource.WithProcess()}},
		{"ec2", ec2.NewResourceDetector()},
		{"ecs", ecs.NewResourceDetector()},
		{"eks", eks.NewResourceDetector()},
		{"lambda", lambda.NewResourceDetector()},
		{"azurevm", azurevm.New()},
		{"gcp", gcp.NewDetector()},
	}
}

// optionDetector exposes one of the SDK's option-gated built-in detectors
// (container, env, host, os, process) through the resource.Detector
// interface so the catalog can hold it alongside the contrib detectors.
type optionDetector struct {
	opt resource.Option
}

func (d optionDetector) Detect(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx, d.opt)
}

// options carries the injectable collaborators.
type options struct {
	logger *zap.Logger
	lookup envflag.LookupFunc
}

// Option configures FromEnv.
type Option func(*options)

// WithLogger sets the sink for selection diagnostics. The default is the
// process-global zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLookupEnv replaces the environment accessor, primarily for tests.
func WithLookupEnv(lookup envflag.LookupFunc) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger: zap.L(),
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Tokens returns the selection tokens in catalog order.
func Tokens() []string {
	entries := catalog()
	tokens := make([]string, len(entries))
	for i, e := range entries {
		tokens[i] = e.token
	}
	return tokens
}

// Modules returns the contrib modules backing the cloud detectors, for
// manifest verification. The remaining catalog entries are SDK built-ins
// and have no module of their own.
func Modules() []string {
	return []string{
		"go.opentelemetry.io/contrib/detectors/aws/ec2",
		"go.opentelemetry.io/contrib/detectors/aws/ecs",
		"go.opentelemetry.io/contrib/detectors/aws/eks",
		"go.opentelemetry.io/contrib/detectors/aws/lambda",
		"go.opentelemetry.io/contrib/detectors/azure/azurevm",
		"go.opentelemetry.io/contrib/detectors/gcp",
	}
}

// FromEnv resolves OTEL_NODE_RESOURCE_DETECTORS to a detector list.
//
// An unset or blank variable selects the full catalog, as does the value
// "all". The value "none" selects nothing. Any other value is read as a
// comma-separated token list: unknown tokens are reported to the
// diagnostic sink and skipped, duplicates collapse, and the result always
// follows catalog order rather than list order. FromEnv never fails; the
// worst malformed value yields an empty list and diagnostics.
//
// The environment is read on every call. Nothing is cached, so tests and
// re-exec scenarios see current values.
func FromEnv(opts ...Option) []resource.Detector {
	o := newOptions(opts)

	entries := catalog()
	raw, set := o.lookup(EnvVar)
	selected := resolve(entries, raw, set, o.logger)

	detectors := make([]resource.Detector, 0, len(selected))
	for _, e := range entries {
		if selected[e.token] {
			detectors = append(detectors, e.det)
		}
	}
	return detectors
}

// resolve maps the raw variable value to the set of selected tokens,
// reporting unknown tokens as it goes.
func resolve(entries []entry, raw string, set bool, logger *zap.Logger) map[string]bool {
	selected := make(map[string]bool, len(entries))
	everything := func() map[string]bool {
		for _, e := range entries {
			selected[e.token] = true
		}
		return selected
	}

	value := strings.TrimSpace(raw)
	if !set || value == "" {
		return everything()
	}
	// "all" and "none" are sentinels only as the whole value; inside a
	// list they are ordinary (unknown) tokens.
	switch value {
	case "all":
		return everything()
	case "none":
		return selected
	}

	valid := make(map[string]bool, len(entries))
	for _, e := range entries {
		valid[e.token] = true
	}
	for _, token := range envflag.Split(raw) {
		if !valid[token] {
			logger.Error(fmt.Sprintf(
				"Invalid resource detector %q specified in the environment variable %s", token, EnvVar))
			continue
		}
		selected[token] = true
	}
	return selected
}
