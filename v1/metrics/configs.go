package metrics

// Config controls the Prometheus registry and the /metrics server.
type Config struct {
	// Address the metrics server listens on, e.g. ":9090".
	Address string `yaml:"address" mapstructure:"address"`

	// ServiceName is attached to every metric as the "service" label.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// EnableDefaultCollectors registers the Go, process and build info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" mapstructure:"enable_default_collectors"`
}

func DefaultConfig() Config {
	return Config{
		Address:                 ":9090",
		ServiceName:             "floatrouter",
		EnableDefaultCollectors: true,
	}
}
