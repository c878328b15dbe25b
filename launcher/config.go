package launcher

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config holds launcher configuration.
type Config struct {
	Enabled        bool              `koanf:"enabled"`
	Endpoint       string            `koanf:"endpoint"`
	Protocol       string            `koanf:"protocol"` // "grpc" (default) or "http/protobuf"
	Insecure       bool              `koanf:"insecure"` // Use insecure connection (no TLS)
	TLSSkipVerify  bool              `koanf:"tls_skip_verify"`
	Headers        map[string]Secret `koanf:"headers"` // extra OTLP headers, e.g. collector auth
	ServiceName    string            `koanf:"service_name"`
	ServiceVersion string            `koanf:"service_version"`
	Sampling       SamplingConfig    `koanf:"sampling"`
	Metrics        MetricsConfig     `koanf:"metrics"`
	Shutdown       ShutdownConfig    `koanf:"shutdown"`
	Logging        LoggingConfig     `koanf:"logging"`
}

// SamplingConfig controls trace sampling behavior.
type SamplingConfig struct {
	Rate float64 `koanf:"rate"` // 0.0-1.0, default 1.0
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Exporter       string   `koanf:"exporter"` // "otlp" (default) or "prometheus"
	ExportInterval Duration `koanf:"export_interval"`
}

// ShutdownConfig controls graceful shutdown behavior.
type ShutdownConfig struct {
	Timeout Duration `koanf:"timeout"`
}

// LoggingConfig controls the logger built by NewLogger.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // zap level, default "info"
	Format string `koanf:"format"` // "json" (default) or "console"
	OTEL   bool   `koanf:"otel"`   // also emit through the OTLP log bridge
}

// NewDefaultConfig returns defaults aimed at a local collector. The
// service name falls back to the OpenTelemetry "unknown_service"
// convention until configuration or OTEL_SERVICE_NAME names it.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		Protocol:    "grpc",
		Insecure:    true, // Insecure by default for local dev; set false for production TLS
		ServiceName: "unknown_service",
		Sampling: SamplingConfig{
			Rate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			Exporter:       "otlp",
			ExportInterval: Duration(15 * time.Second),
		},
		Shutdown: ShutdownConfig{
			Timeout: Duration(5 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil // No validation needed if disabled
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when the launcher is enabled")
	}

	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when the launcher is enabled")
	}

	switch c.Protocol {
	case "", "grpc", "http/protobuf":
	default:
		return fmt.Errorf("protocol must be grpc or http/protobuf, got %q", c.Protocol)
	}

	// Security: Prevent insecure connections to remote endpoints
	if c.Insecure && !c.isLocalEndpoint() {
		return fmt.Errorf("insecure connections to remote endpoints are not allowed; set insecure=false for TLS or use a local endpoint (localhost/127.0.0.1)")
	}

	if c.Sampling.Rate < 0 || c.Sampling.Rate > 1 {
		return fmt.Errorf("sampling.rate must be between 0 and 1, got %f", c.Sampling.Rate)
	}

	switch c.Metrics.Exporter {
	case "", "otlp", "prometheus":
	default:
		return fmt.Errorf("metrics.exporter must be otlp or prometheus, got %q", c.Metrics.Exporter)
	}

	if c.Metrics.Enabled && c.Metrics.Exporter != "prometheus" && c.Metrics.ExportInterval.Duration() <= 0 {
		return fmt.Errorf("metrics.export_interval must be positive when metrics enabled")
	}

	if c.Shutdown.Timeout.Duration() <= 0 {
		return fmt.Errorf("shutdown.timeout must be positive")
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}

	return nil
}

// isLocalEndpoint checks if the endpoint is a local address.
func (c *Config) isLocalEndpoint() bool {
	host := stripScheme(c.Endpoint)

	// Handle IPv6 addresses (may be bracketed like [::1]:4317)
	if strings.HasPrefix(host, "[") {
		// Bracketed IPv6: [::1]:4317
		if idx := strings.Index(host, "]:"); idx != -1 {
			host = host[1:idx] // Extract between [ and ]
		} else if strings.HasSuffix(host, "]") {
			host = host[1 : len(host)-1] // [::1] without port
		}
	} else if strings.Count(host, ":") == 1 {
		// IPv4 or hostname with port: localhost:4317
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}
	}
	// For IPv6 without brackets (::1, ::1:4317), we check the full string

	// Check for common local addresses
	return host == "localhost" ||
		host == "127.0.0.1" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.") ||
		strings.HasPrefix(stripScheme(c.Endpoint), "::1")
}
