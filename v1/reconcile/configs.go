package reconcile

import "time"

const (
	defaultCollection        = "argo_floats"
	defaultBatchSize         = 100
	defaultLookupConcurrency = 8
	defaultLockKey           = "floatrouter:reconcile"
	defaultLockTTL           = 10 * time.Minute
)

// Config controls a reconciliation pass and the scheduled loop.
type Config struct {
	// Collection is the vector collection repaired by the pass.
	Collection string `yaml:"collection" mapstructure:"collection"`

	// BatchSize is the number of staged floats embedded and inserted per write.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`

	// LookupConcurrency bounds in-flight vector lookups.
	LookupConcurrency int `yaml:"lookup_concurrency" mapstructure:"lookup_concurrency"`

	// Interval between scheduled passes. Zero disables the schedule.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	LockKey string        `yaml:"lock_key" mapstructure:"lock_key"`
	LockTTL time.Duration `yaml:"lock_ttl" mapstructure:"lock_ttl"`
}

func DefaultConfig() Config {
	return Config{
		Collection:        defaultCollection,
		BatchSize:         defaultBatchSize,
		LookupConcurrency: defaultLookupConcurrency,
		Interval:          30 * time.Minute,
		LockKey:           defaultLockKey,
		LockTTL:           defaultLockTTL,
	}
}

func (c Config) withDefaults() Config {
	if c.Collection == "" {
		c.Collection = defaultCollection
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.LookupConcurrency <= 0 {
		c.LookupConcurrency = defaultLookupConcurrency
	}
	if c.LockKey == "" {
		c.LockKey = defaultLockKey
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaultLockTTL
	}
	return c
}
