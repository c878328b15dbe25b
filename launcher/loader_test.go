package launcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autotel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "grpc", cfg.Protocol)
	assert.Equal(t, "unknown_service", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.Sampling.Rate)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
}

func TestLoad_File(t *testing.T) {
	path := writeConfigFile(t, `
endpoint: "localhost:4318"
protocol: "http/protobuf"
service_name: "checkout"
service_version: "1.2.3"
sampling:
  rate: 0.25
metrics:
  exporter: "prometheus"
logging:
  format: "console"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:4318", cfg.Endpoint)
	assert.Equal(t, "http/protobuf", cfg.Protocol)
	assert.Equal(t, "checkout", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	assert.Equal(t, 0.25, cfg.Sampling.Rate)
	assert.Equal(t, "prometheus", cfg.Metrics.Exporter)
	assert.Equal(t, "console", cfg.Logging.Format)

	// Keys absent from the file keep their defaults
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Metrics.ExportInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.Timeout.Duration())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "endpoint: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestLoad_OTELVariables(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "checkout")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "http/protobuf")
	// Unmapped OTEL_* variables must not leak into the config
	t.Setenv("OTEL_NODE_RESOURCE_DETECTORS", "none")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.ServiceName)
	assert.Equal(t, "localhost:4318", cfg.Endpoint)
	assert.Equal(t, "http/protobuf", cfg.Protocol)
}

func TestLoad_OTELVariablesOverrideFile(t *testing.T) {
	path := writeConfigFile(t, `service_name: "from-file"`)
	t.Setenv("OTEL_SERVICE_NAME", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ServiceName)
}

func TestLoad_AutotelVariables(t *testing.T) {
	t.Setenv("AUTOTEL_SERVICE_NAME", "checkout")
	t.Setenv("AUTOTEL_SAMPLING_RATE", "0.5")
	t.Setenv("AUTOTEL_METRICS_EXPORT_INTERVAL", "30s")
	t.Setenv("AUTOTEL_LOGGING_LEVEL", "debug")
	t.Setenv("AUTOTEL_TLS_SKIP_VERIFY", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.ServiceName)
	assert.Equal(t, 0.5, cfg.Sampling.Rate)
	assert.Equal(t, 30*time.Second, cfg.Metrics.ExportInterval.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.TLSSkipVerify)
}

func TestLoad_AutotelOverridesOTEL(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "from-otel")
	t.Setenv("AUTOTEL_SERVICE_NAME", "from-autotel")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-autotel", cfg.ServiceName)
}

func TestLoad_HeaderSecrets(t *testing.T) {
	path := writeConfigFile(t, `
headers:
  authorization: "Bearer tok-123"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Contains(t, cfg.Headers, "authorization")
	assert.Equal(t, "Bearer tok-123", cfg.Headers["authorization"].Value())
	assert.Equal(t, "[REDACTED]", cfg.Headers["authorization"].String())
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("AUTOTEL_SAMPLING_RATE", "2.0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_ExplicitZeroRate(t *testing.T) {
	path := writeConfigFile(t, `
sampling:
  rate: 0.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Sampling.Rate)
}
