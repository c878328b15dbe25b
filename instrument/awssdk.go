package instrument

import (
	"github.com/aws/smithy-go/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// AWSSDKName identifies the AWS SDK v2 adapter in the catalog.
const AWSSDKName = "autotel/instrumentation-aws-sdk"

// AWSSDKConfig configures the AWS SDK v2 adapter. Nil provider fields defer
// to the otel globals.
type AWSSDKConfig struct {
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
}

// AWSSDK instruments AWS SDK v2 clients by appending tracing middleware to
// their API option stacks.
type AWSSDK struct {
	opts []otelaws.Option
}

// NewAWSSDK returns an AWS SDK adapter. A nil config means defaults.
func NewAWSSDK(cfg *AWSSDKConfig) *AWSSDK {
	if cfg == nil {
		cfg = &AWSSDKConfig{}
	}
	var opts []otelaws.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelaws.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.Propagator != nil {
		opts = append(opts, otelaws.WithTextMapPropagator(cfg.Propagator))
	}
	return &AWSSDK{opts: opts}
}

// Name returns the catalog identifier.
func (a *AWSSDK) Name() string { return AWSSDKName }

// Append adds the tracing middleware to an AWS SDK config's APIOptions:
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	adapter.Append(&cfg.APIOptions)
func (a *AWSSDK) Append(apiOptions *[]func(*middleware.Stack) error) {
	otelaws.AppendMiddlewares(apiOptions, a.opts...)
}

func awssdkRegistration() Registration {
	return Registration{
		Name:   AWSSDKName,
		Module: "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[AWSSDKConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewAWSSDK(cfg), nil
		},
	}
}
