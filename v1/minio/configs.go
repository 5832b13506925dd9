package minio

// Config holds the MinIO connection settings.
type Config struct {
	Connection ConnectionConfig `yaml:"connection" mapstructure:"connection"`
}

// ConnectionConfig contains MinIO server connection details.
type ConnectionConfig struct {
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	BucketName      string `yaml:"bucket_name" mapstructure:"bucket_name"`
	Region          string `yaml:"region" mapstructure:"region"`

	// AccessBucketCreation allows creating BucketName when it is missing.
	AccessBucketCreation bool `yaml:"access_bucket_creation" mapstructure:"access_bucket_creation"`
}

func DefaultConfig() Config {
	return Config{
		Connection: ConnectionConfig{
			Endpoint:             "localhost:9000",
			BucketName:           "floatrouter-audit",
			Region:               "us-east-1",
			AccessBucketCreation: true,
		},
	}
}
