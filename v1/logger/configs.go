package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the zap logger built by NewLoggerClient.
type Config struct {
	// Level is one of debug, info, warning, error. Unknown values fall back to info.
	Level string `yaml:"level" mapstructure:"level"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// EnableTracing makes the *Ctx methods attach trace_id and span_id
	// from the active OpenTelemetry span.
	EnableTracing bool `yaml:"enable_tracing" mapstructure:"enable_tracing"`
}

// DefaultConfig returns an info level configuration.
func DefaultConfig() Config {
	return Config{
		Level:       Info,
		ServiceName: "floatrouter",
	}
}
