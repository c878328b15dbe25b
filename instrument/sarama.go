package instrument

import (
	"github.com/IBM/sarama"
	"go.opentelemetry.io/contrib/instrumentation/github.com/IBM/sarama/otelsarama"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// SaramaName identifies the Kafka (sarama) adapter in the catalog.
const SaramaName = "autotel/instrumentation-sarama"

// SaramaConfig configures the Kafka adapter.
type SaramaConfig struct {
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
}

// Sarama wraps sarama producers and consumers so Kafka messages carry
// trace context and produce/consume operations become spans.
type Sarama struct {
	opts []otelsarama.Option
}

// NewSarama returns a Kafka adapter. A nil config means defaults.
func NewSarama(cfg *SaramaConfig) *Sarama {
	if cfg == nil {
		cfg = &SaramaConfig{}
	}
	var opts []otelsarama.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelsarama.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.Propagator != nil {
		opts = append(opts, otelsarama.WithPropagators(cfg.Propagator))
	}
	return &Sarama{opts: opts}
}

// Name returns the catalog identifier.
func (s *Sarama) Name() string { return SaramaName }

// WrapSyncProducer instruments a synchronous producer. The sarama config
// must be the one the producer was built with; the wrapper reads its
// version and partitioner settings.
func (s *Sarama) WrapSyncProducer(saramaConfig *sarama.Config, producer sarama.SyncProducer) sarama.SyncProducer {
	return otelsarama.WrapSyncProducer(saramaConfig, producer, s.opts...)
}

// WrapAsyncProducer instruments an asynchronous producer.
func (s *Sarama) WrapAsyncProducer(saramaConfig *sarama.Config, producer sarama.AsyncProducer) sarama.AsyncProducer {
	return otelsarama.WrapAsyncProducer(saramaConfig, producer, s.opts...)
}

// WrapConsumer instruments a partition consumer.
func (s *Sarama) WrapConsumer(consumer sarama.Consumer) sarama.Consumer {
	return otelsarama.WrapConsumer(consumer, s.opts...)
}

// WrapConsumerGroupHandler instruments a consumer group handler.
func (s *Sarama) WrapConsumerGroupHandler(handler sarama.ConsumerGroupHandler) sarama.ConsumerGroupHandler {
	return otelsarama.WrapConsumerGroupHandler(handler, s.opts...)
}

func saramaRegistration() Registration {
	return Registration{
		Name:   SaramaName,
		Module: "go.opentelemetry.io/contrib/instrumentation/github.com/IBM/sarama/otelsarama",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[SaramaConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewSarama(cfg), nil
		},
	}
}
