package launcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the launcher's own environment variables.
const envPrefix = "AUTOTEL_"

// sections are the nested config blocks. The env transformer needs them to
// tell AUTOTEL_SAMPLING_RATE (sampling.rate) apart from compound flat
// fields like AUTOTEL_SERVICE_NAME (service_name).
var sections = map[string]bool{
	"sampling": true,
	"metrics":  true,
	"shutdown": true,
	"logging":  true,
	"headers":  true,
}

// Load builds configuration from an optional YAML file and the
// environment.
//
// Precedence (highest to lowest):
//  1. AUTOTEL_* environment variables (AUTOTEL_ENDPOINT, AUTOTEL_SAMPLING_RATE, ...)
//  2. Standard OpenTelemetry variables (OTEL_SERVICE_NAME,
//     OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_PROTOCOL)
//  3. YAML config file, when path is non-empty and the file exists
//  4. Defaults from NewDefaultConfig
//
// Only the launcher's own configuration lives here. Instrumentation and
// detector selection variables (OTEL_INSTRUMENTATION_*_ENABLED,
// OTEL_NODE_RESOURCE_DETECTORS, ...) are deliberately not part of this
// file: they are read directly, uncached, at assembly time.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	// Standard OTel variables come next, so the launcher drops into
	// deployments already configured for other OpenTelemetry SDKs.
	if err := k.Load(env.Provider("OTEL_", ".", func(s string) string {
		switch s {
		case "OTEL_SERVICE_NAME":
			return "service_name"
		case "OTEL_EXPORTER_OTLP_ENDPOINT":
			return "endpoint"
		case "OTEL_EXPORTER_OTLP_PROTOCOL":
			return "protocol"
		}
		return "" // Ignore every other OTEL_* variable
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load OTEL environment variables: %w", err)
	}

	// AUTOTEL_* variables win over everything.
	//
	// Examples:
	//   AUTOTEL_ENDPOINT                -> endpoint
	//   AUTOTEL_SERVICE_NAME            -> service_name
	//   AUTOTEL_SAMPLING_RATE           -> sampling.rate
	//   AUTOTEL_METRICS_EXPORT_INTERVAL -> metrics.export_interval
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 2 && sections[parts[0]] {
			return parts[0] + "." + parts[1]
		}
		return lower
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal over the defaults so absent keys keep them. This also
	// keeps an explicit `rate: 0` distinguishable from an unset one.
	cfg := NewDefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
