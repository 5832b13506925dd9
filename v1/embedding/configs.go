package embedding

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ProviderOpenAI    = "openai"
	ProviderInference = "inference"
)

// Config selects and configures the embedding provider.
//
// For the inference provider, Endpoint must point to the root of an
// OpenAI-compatible service (no /embeddings appended).
type Config struct {
	Provider string `yaml:"provider" mapstructure:"provider"`

	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// APIKey is the OpenAI key or the inference service token.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	Model string `yaml:"model" mapstructure:"model"`

	// Dimensions, when set, is checked against every returned vector.
	Dimensions int `yaml:"dimensions" mapstructure:"dimensions"`

	HTTPTimeout time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`

	// BatchSize caps the texts sent per provider call.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`

	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
}

// DefaultConfig uses OpenAI text-embedding-ada-002 and three attempts with
// exponential backoff between 4s and 10s.
func DefaultConfig() Config {
	return Config{
		Provider:       ProviderOpenAI,
		Model:          "text-embedding-ada-002",
		Dimensions:     1536,
		HTTPTimeout:    30 * time.Second,
		BatchSize:      100,
		MaxAttempts:    3,
		InitialBackoff: 4 * time.Second,
		MaxBackoff:     10 * time.Second,
	}
}

// NewConfig starts from DefaultConfig and applies OPENAI_API_KEY and the
// EMBEDDING_* environment variables.
func NewConfig() Config {
	cfg := DefaultConfig()
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")

	if v := os.Getenv("EMBEDDING_ENDPOINT"); v != "" {
		cfg.Provider = ProviderInference
		cfg.Endpoint = v
	}
	if v := os.Getenv("EMBEDDING_SERVICE_TOKEN"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("EMBEDDING_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	return cfg
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, "":
	case ProviderInference:
		if c.Endpoint == "" {
			return fmt.Errorf("embedding: missing EMBEDDING_ENDPOINT")
		}
	default:
		return fmt.Errorf("embedding: unknown provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return ErrMissingCredentials
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: model is required")
	}
	return nil
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Provider == "" {
		c.Provider = d.Provider
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = d.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = d.MaxBackoff
	}
	return c
}
