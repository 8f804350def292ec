package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9090"
  readTimeoutSeconds: 5
  writeTimeoutSeconds: 10
  idleTimeoutSeconds: 20
logging:
  level: "DEBUG"
pricing:
  apiKey: "from-file"
  baseURL: "https://pricing.example.com"
  requestTimeoutMillis: 2000
  cacheTTLMillis: 30000
  maxTokensPerBatchRequest: 50
  requestsPerSecond: 2.5
positionProvider:
  baseURL: "https://positions.example.com"
  requestTimeoutMillis: 3000
performance:
  max_concurrent_routines: 4
  rpc_call_timeout_seconds: 7
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "from-file", cfg.Pricing.APIKey)
	assert.Equal(t, "https://pricing.example.com", cfg.Pricing.BaseURL)
	assert.Equal(t, int64(30000), cfg.Pricing.CacheTTLMillis)
	assert.Equal(t, 50, cfg.Pricing.MaxTokensPerBatchRequest)
	assert.Equal(t, 2.5, cfg.Pricing.RequestsPerSecond)
	assert.Equal(t, "https://positions.example.com", cfg.PositionProvider.BaseURL)
	assert.Equal(t, 4, cfg.Performance.MaxConcurrentRoutines)
	assert.Equal(t, 7, cfg.Performance.RPCCallTimeoutSeconds)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
positionProvider:
  baseURL: "https://positions.example.com"
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, 30, cfg.Server.WriteTimeoutSeconds)
	assert.Equal(t, 60, cfg.Server.IdleTimeoutSeconds)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "https://pro-api.coinmarketcap.com", cfg.Pricing.BaseURL)
	assert.Equal(t, int64(10000), cfg.Pricing.RequestTimeoutMillis)
	assert.Equal(t, int64(60000), cfg.Pricing.CacheTTLMillis)
	assert.Equal(t, 100, cfg.Pricing.MaxTokensPerBatchRequest)
	assert.Equal(t, 5.0, cfg.Pricing.RequestsPerSecond)
	assert.Equal(t, int64(10000), cfg.PositionProvider.RequestTimeoutMillis)
	assert.Equal(t, 10, cfg.Performance.MaxConcurrentRoutines)
	assert.Equal(t, 10, cfg.Performance.RPCCallTimeoutSeconds)
}

func TestLoad_EnvironmentOverridesAPIKey(t *testing.T) {
	t.Setenv("PRICING_API_KEY", "from-env")
	path := writeConfig(t, `
pricing:
  apiKey: "from-file"
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Pricing.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [this is not a mapping")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}
