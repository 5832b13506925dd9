package dualstore

type Config struct {
	// Collection receives the float vectors.
	Collection string `yaml:"collection" mapstructure:"collection"`
}

func DefaultConfig() Config {
	return Config{Collection: "argo_floats"}
}
