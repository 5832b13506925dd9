package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// AppEnv ends up in the deployment.environment resource attribute.
	AppEnv string `yaml:"app_env" mapstructure:"app_env"`

	// EnableExport turns on the OTLP HTTP exporter. The endpoint is read by
	// the exporter from OTEL_EXPORTER_OTLP_ENDPOINT.
	EnableExport bool `yaml:"enable_export" mapstructure:"enable_export"`
}
