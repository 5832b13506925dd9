package qdrant

import "time"

// Config holds the Qdrant connection settings.
type Config struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Port is the gRPC port.
	Port int `yaml:"port" mapstructure:"port"`

	ApiKey string `yaml:"api_key" mapstructure:"api_key"`

	UseTLS bool `yaml:"use_tls" mapstructure:"use_tls"`

	// Collection is the float collection, created on startup when missing.
	Collection string `yaml:"collection" mapstructure:"collection"`

	// VectorSize must match the embedding model.
	VectorSize uint64 `yaml:"vector_size" mapstructure:"vector_size"`

	// Timeout bounds the startup health check.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	CheckCompatibility bool `yaml:"check_compatibility" mapstructure:"check_compatibility"`
}

// DefaultConfig targets a local Qdrant and text-embedding-ada-002 vectors.
func DefaultConfig() Config {
	return Config{
		Endpoint:           "localhost",
		Port:               6334,
		Collection:         "argo_floats",
		VectorSize:         1536,
		Timeout:            5 * time.Second,
		CheckCompatibility: true,
	}
}
