package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PricingConfig holds pricing provider specific configurations.
// An empty APIKey puts the pricing service into degraded mode: no remote calls
// are made and every requested price resolves to 0.
type PricingConfig struct {
	APIKey                   string  `yaml:"apiKey"`
	BaseURL                  string  `yaml:"baseURL"`
	RequestTimeoutMillis     int64   `yaml:"requestTimeoutMillis"`
	CacheTTLMillis           int64   `yaml:"cacheTTLMillis"`
	MaxTokensPerBatchRequest int     `yaml:"maxTokensPerBatchRequest"`
	RequestsPerSecond        float64 `yaml:"requestsPerSecond"`
}

// PositionProviderConfig holds position-data provider specific configurations.
type PositionProviderConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
	RPCCallTimeoutSeconds int `yaml:"rpc_call_timeout_seconds"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server           ServerConfig           `yaml:"server"`
	Logging          LoggingConfig          `yaml:"logging"`
	Pricing          PricingConfig          `yaml:"pricing"`
	PositionProvider PositionProviderConfig `yaml:"positionProvider"`
	Performance      PerformanceConfig      `yaml:"performance"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	// The credential is usually injected through the environment rather than
	// committed to the config file.
	if key := os.Getenv("PRICING_API_KEY"); key != "" {
		cfg.Pricing.APIKey = key
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}

	if cfg.Pricing.BaseURL == "" {
		cfg.Pricing.BaseURL = "https://pro-api.coinmarketcap.com"
	}
	if cfg.Pricing.RequestTimeoutMillis <= 0 {
		cfg.Pricing.RequestTimeoutMillis = 10000 // 10 seconds
	}
	if cfg.Pricing.CacheTTLMillis <= 0 {
		cfg.Pricing.CacheTTLMillis = 60000 // 60 seconds
	}
	if cfg.Pricing.MaxTokensPerBatchRequest <= 0 {
		cfg.Pricing.MaxTokensPerBatchRequest = 100
	}
	if cfg.Pricing.RequestsPerSecond <= 0 {
		cfg.Pricing.RequestsPerSecond = 5
	}

	if cfg.PositionProvider.RequestTimeoutMillis <= 0 {
		cfg.PositionProvider.RequestTimeoutMillis = 10000
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
	}
	if cfg.Performance.RPCCallTimeoutSeconds <= 0 {
		cfg.Performance.RPCCallTimeoutSeconds = 10
	}
}
