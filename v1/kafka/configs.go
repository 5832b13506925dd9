package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultMinBytes     = 1
	DefaultMaxBytes     = 10e6
	DefaultMaxWait      = 500 * time.Millisecond
	DefaultStartOffset  = kafka.FirstOffset
	DefaultBatchSize    = 50
	DefaultBatchTimeout = 2 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultMaxAttempts  = 3
)

// Config holds the connection and batching settings of the float topic.
type Config struct {
	Brokers []string `yaml:"brokers" mapstructure:"brokers"`
	Topic   string   `yaml:"topic" mapstructure:"topic"`
	GroupID string   `yaml:"group_id" mapstructure:"group_id"`

	MinBytes    int           `yaml:"min_bytes" mapstructure:"min_bytes"`
	MaxBytes    int           `yaml:"max_bytes" mapstructure:"max_bytes"`
	MaxWait     time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
	StartOffset int64         `yaml:"start_offset" mapstructure:"start_offset"`

	// BatchSize and BatchTimeout bound how many records are handed to one
	// Ingest call and how long the consumer waits to fill a batch.
	BatchSize    int           `yaml:"batch_size" mapstructure:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`

	// CompressionCodec is used by the producer: gzip, snappy, lz4 or zstd.
	CompressionCodec string        `yaml:"compression_codec" mapstructure:"compression_codec"`
	WriteTimeout     time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxAttempts      int           `yaml:"max_attempts" mapstructure:"max_attempts"`

	TLS  TLSConfig  `yaml:"tls" mapstructure:"tls"`
	SASL SASLConfig `yaml:"sasl" mapstructure:"sasl"`
}

type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled"`
	CACertPath         string `yaml:"ca_cert_path" mapstructure:"ca_cert_path"`
	ClientCertPath     string `yaml:"client_cert_path" mapstructure:"client_cert_path"`
	ClientKeyPath      string `yaml:"client_key_path" mapstructure:"client_key_path"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// SASLConfig Mechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
type SASLConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Mechanism string `yaml:"mechanism" mapstructure:"mechanism"`
	Username  string `yaml:"username" mapstructure:"username"`
	Password  string `yaml:"password" mapstructure:"password"`
}

func DefaultConfig() Config {
	return Config{
		Brokers:      []string{"localhost:9092"},
		Topic:        "argo-floats",
		GroupID:      "floatrouter-ingest",
		BatchSize:    DefaultBatchSize,
		BatchTimeout: DefaultBatchTimeout,
	}
}

func (c Config) withDefaults() Config {
	if c.MinBytes == 0 {
		c.MinBytes = DefaultMinBytes
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.MaxWait == 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.StartOffset == 0 {
		c.StartOffset = DefaultStartOffset
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = DefaultBatchTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}
