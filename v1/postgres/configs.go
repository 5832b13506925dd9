package postgres

import (
	"fmt"
	"time"
)

// Config holds the connection and pool settings.
type Config struct {
	Connection        Connection        `yaml:"connection" mapstructure:"connection"`
	ConnectionDetails ConnectionDetails `yaml:"connection_details" mapstructure:"connection_details"`
}

type Connection struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DbName   string `yaml:"db_name" mapstructure:"db_name"`
	SSLMode  string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
}

// ConnectionDetails zero values fall back to 50 open, 25 idle, 1m lifetime.
type ConnectionDetails struct {
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

func DefaultConfig() Config {
	return Config{
		Connection: Connection{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DbName:  "argo",
			SSLMode: "disable",
		},
	}
}

// DSN is the keyword/value connection string shared by gorm and pgx.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Connection.Host,
		c.Connection.Port,
		c.Connection.User,
		c.Connection.Password,
		c.Connection.DbName,
		c.Connection.SSLMode)
}
