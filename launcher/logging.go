package launcher

import (
	"fmt"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger from the launcher's logging config.
//
// The logger always writes to stdout. When Logging.OTEL is set and provider
// is non-nil, records are additionally bridged to the OpenTelemetry log
// pipeline through otelzap, correlated with the active span.
//
// provider can be nil to disable the OTEL output.
func NewLogger(cfg *Config, provider log.LoggerProvider) (*zap.Logger, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Logging.Level != "" {
		var err error
		level, err = zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
	}

	cores := make([]zapcore.Core, 0, 2)
	cores = append(cores, zapcore.NewCore(
		newEncoder(cfg.Logging.Format),
		zapcore.AddSync(os.Stdout),
		level,
	))

	if cfg.Logging.OTEL && provider != nil {
		cores = append(cores, otelzap.NewCore(scopeName,
			otelzap.WithLoggerProvider(provider),
		))
	}

	core := cores[0]
	if len(cores) > 1 {
		core = zapcore.NewTee(cores...)
	}

	return zap.New(core), nil
}

// newEncoder creates a JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}
