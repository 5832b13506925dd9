package router

import "time"

const (
	defaultSQLTimeout        = 30 * time.Second
	defaultVectorTimeout     = 10 * time.Second
	defaultStructuredWorkers = 8
	defaultTopK              = 10
	defaultHTTPAddress       = ":8081"
)

// Config holds the router policy. Zero values are replaced by defaults in
// NewRouter.
type Config struct {
	// SQLTimeout bounds one structured call, translation included.
	SQLTimeout time.Duration `yaml:"sql_timeout" mapstructure:"sql_timeout"`

	VectorTimeout time.Duration `yaml:"vector_timeout" mapstructure:"vector_timeout"`

	// StructuredWorkers is the number of structured calls that may be in
	// flight at once, abandoned ones included.
	StructuredWorkers int64 `yaml:"structured_workers" mapstructure:"structured_workers"`

	Thresholds Thresholds `yaml:"thresholds" mapstructure:"thresholds"`

	// TopK is the number of neighbours the vector adapter asks for.
	TopK int `yaml:"top_k" mapstructure:"top_k"`

	// Collection is the vector collection searched by the vector adapter.
	Collection string `yaml:"collection" mapstructure:"collection"`

	// HTTPAddress is where "serve" accepts queries.
	HTTPAddress string `yaml:"http_address" mapstructure:"http_address"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		SQLTimeout:        defaultSQLTimeout,
		VectorTimeout:     defaultVectorTimeout,
		StructuredWorkers: defaultStructuredWorkers,
		Thresholds:        DefaultThresholds(),
		TopK:              defaultTopK,
		Collection:        "argo_floats",
		HTTPAddress:       defaultHTTPAddress,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SQLTimeout <= 0 {
		c.SQLTimeout = d.SQLTimeout
	}
	if c.VectorTimeout <= 0 {
		c.VectorTimeout = d.VectorTimeout
	}
	if c.StructuredWorkers <= 0 {
		c.StructuredWorkers = d.StructuredWorkers
	}
	if c.Thresholds == (Thresholds{}) {
		c.Thresholds = d.Thresholds
	}
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.Collection == "" {
		c.Collection = d.Collection
	}
	if c.HTTPAddress == "" {
		c.HTTPAddress = d.HTTPAddress
	}
	return c
}
