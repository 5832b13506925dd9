package nlsql

import "time"

// Config configures translation and execution of natural-language queries.
type Config struct {
	// APIKey for the chat model; falls back to OPENAI_API_KEY.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the OpenAI endpoint. Optional.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	Model string `yaml:"model" mapstructure:"model"`

	// DSN of the read-only connection pool.
	DSN string `yaml:"dsn" mapstructure:"dsn"`

	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`

	// RowLimit caps the rows returned per statement.
	RowLimit int `yaml:"row_limit" mapstructure:"row_limit"`

	// StatementTimeout is applied with SET LOCAL inside the transaction.
	StatementTimeout time.Duration `yaml:"statement_timeout" mapstructure:"statement_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Model:            "gpt-4o-mini",
		MaxConns:         8,
		RowLimit:         200,
		StatementTimeout: 25 * time.Second,
	}
}
