// FilePath: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Registry RegistryConfig
	Auth     AuthConfig
	Edge     EdgeConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type RegistryConfig struct {
	// A unit that has not reported within this window reads as stale.
	// Edge units report every 10s, so 15s tolerates one missed beat.
	StalenessThreshold time.Duration `mapstructure:"staleness_threshold"`
}

type AuthConfig struct {
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type EdgeConfig struct {
	ServerURL      string        `mapstructure:"server_url"`
	Key            string        `mapstructure:"key"`
	Name           string        `mapstructure:"name"`
	ReportInterval time.Duration `mapstructure:"report_interval"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("SFP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults; an empty host runs the hub on in-memory storage
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "sfp")
	viper.SetDefault("database.dbname", "sfp_hub")

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.channel", "sfp.occupancy")

	// Registry defaults
	viper.SetDefault("registry.staleness_threshold", "15s")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "8h")

	// Edge defaults
	viper.SetDefault("edge.server_url", "http://localhost:8080")
	viper.SetDefault("edge.report_interval", "10s")
}

func validateConfig(config *Config) error {
	if config.Registry.StalenessThreshold <= 0 {
		return fmt.Errorf("registry staleness threshold must be positive")
	}
	if config.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive")
	}
	return nil
}
