package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/floatrouter/v1/dualstore"
	"github.com/Aleph-Alpha/floatrouter/v1/embedding"
	"github.com/Aleph-Alpha/floatrouter/v1/kafka"
	"github.com/Aleph-Alpha/floatrouter/v1/logger"
	"github.com/Aleph-Alpha/floatrouter/v1/metrics"
	"github.com/Aleph-Alpha/floatrouter/v1/minio"
	"github.com/Aleph-Alpha/floatrouter/v1/nlsql"
	"github.com/Aleph-Alpha/floatrouter/v1/postgres"
	"github.com/Aleph-Alpha/floatrouter/v1/qdrant"
	"github.com/Aleph-Alpha/floatrouter/v1/reconcile"
	"github.com/Aleph-Alpha/floatrouter/v1/redis"
	"github.com/Aleph-Alpha/floatrouter/v1/router"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
)

const envPrefix = "FLOATROUTER"

// AppConfig is the whole configuration file. Every key can be overridden by
// FLOATROUTER_<SECTION>_<KEY>, e.g. FLOATROUTER_POSTGRES_CONNECTION_HOST.
type AppConfig struct {
	Logger    logger.Config    `yaml:"logger" mapstructure:"logger"`
	Tracer    tracer.Config    `yaml:"tracer" mapstructure:"tracer"`
	Metrics   metrics.Config   `yaml:"metrics" mapstructure:"metrics"`
	Postgres  postgres.Config  `yaml:"postgres" mapstructure:"postgres"`
	Qdrant    qdrant.Config    `yaml:"qdrant" mapstructure:"qdrant"`
	Embedding embedding.Config `yaml:"embedding" mapstructure:"embedding"`
	NLSQL     nlsql.Config     `yaml:"nlsql" mapstructure:"nlsql"`
	Router    router.Config    `yaml:"router" mapstructure:"router"`
	DualStore dualstore.Config `yaml:"dualstore" mapstructure:"dualstore"`
	Reconcile reconcile.Config `yaml:"reconcile" mapstructure:"reconcile"`
	Kafka     kafka.Config     `yaml:"kafka" mapstructure:"kafka"`
	Redis     redis.Config     `yaml:"redis" mapstructure:"redis"`
	Minio     minio.Config     `yaml:"minio" mapstructure:"minio"`

	// Lock and Audit switch on the redis reconciliation lock and the MinIO
	// audit sink.
	Lock  bool `yaml:"lock" mapstructure:"lock"`
	Audit bool `yaml:"audit" mapstructure:"audit"`
}

// defaultAppConfig leaves the collection of the router, reconciler and dual
// store empty so they follow qdrant.collection.
func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Logger:    logger.DefaultConfig(),
		Tracer:    tracer.Config{ServiceName: "floatrouter", AppEnv: "development"},
		Metrics:   metrics.DefaultConfig(),
		Postgres:  postgres.DefaultConfig(),
		Qdrant:    qdrant.DefaultConfig(),
		Embedding: embedding.NewConfig(),
		NLSQL:     nlsql.DefaultConfig(),
		Router:    router.DefaultConfig(),
		DualStore: dualstore.DefaultConfig(),
		Reconcile: reconcile.DefaultConfig(),
		Kafka:     kafka.DefaultConfig(),
		Redis:     redis.DefaultConfig(),
		Minio:     minio.DefaultConfig(),
	}
	cfg.Router.Collection = ""
	cfg.Reconcile.Collection = ""
	cfg.DualStore.Collection = ""
	return cfg
}

// loadConfig layers, lowest first: defaults, the YAML file at path (when
// given), and FLOATROUTER_* variables from the environment or a local .env.
func loadConfig(path string) (AppConfig, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	defaults := defaultAppConfig()
	raw, err := yaml.Marshal(defaults)
	if err != nil {
		return AppConfig{}, fmt.Errorf("encode defaults: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return AppConfig{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg.resolve(), nil
}

// resolve fills settings derived from other sections.
func (c AppConfig) resolve() AppConfig {
	if c.NLSQL.DSN == "" {
		c.NLSQL.DSN = c.Postgres.DSN()
	}
	if c.NLSQL.APIKey == "" && c.Embedding.Provider == embedding.ProviderOpenAI {
		c.NLSQL.APIKey = c.Embedding.APIKey
	}
	if c.Router.Collection == "" {
		c.Router.Collection = c.Qdrant.Collection
	}
	if c.Reconcile.Collection == "" {
		c.Reconcile.Collection = c.Qdrant.Collection
	}
	if c.DualStore.Collection == "" {
		c.DualStore.Collection = c.Qdrant.Collection
	}
	if c.Qdrant.VectorSize == 0 && c.Embedding.Dimensions > 0 {
		c.Qdrant.VectorSize = uint64(c.Embedding.Dimensions)
	}
	return c
}
