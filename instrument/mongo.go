package instrument

import (
	"go.mongodb.org/mongo-driver/event"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.opentelemetry.io/otel/trace"
)

// MongoName identifies the MongoDB adapter in the catalog.
const MongoName = "autotel/instrumentation-mongo"

// MongoConfig configures the MongoDB adapter. CommandAttributeDisabled
// keeps raw command documents out of span attributes; they can contain
// query values.
type MongoConfig struct {
	TracerProvider           trace.TracerProvider
	CommandAttributeDisabled bool
}

// Mongo produces a command monitor that traces MongoDB driver operations.
type Mongo struct {
	opts []otelmongo.Option
}

// NewMongo returns a MongoDB adapter. A nil config means defaults.
func NewMongo(cfg *MongoConfig) *Mongo {
	if cfg == nil {
		cfg = &MongoConfig{}
	}
	var opts []otelmongo.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelmongo.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.CommandAttributeDisabled {
		opts = append(opts, otelmongo.WithCommandAttributeDisabled(true))
	}
	return &Mongo{opts: opts}
}

// Name returns the catalog identifier.
func (m *Mongo) Name() string { return MongoName }

// CommandMonitor returns a monitor for the driver's client options:
//
//	opts := options.Client().SetMonitor(adapter.CommandMonitor())
func (m *Mongo) CommandMonitor() *event.CommandMonitor {
	return otelmongo.NewMonitor(m.opts...)
}

func mongoRegistration() Registration {
	return Registration{
		Name:   MongoName,
		Module: "go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo",
		New: func(opts any) (Instrumentation, error) {
			cfg, err := coerce[MongoConfig](opts)
			if err != nil {
				return nil, err
			}
			return NewMongo(cfg), nil
		},
	}
}
