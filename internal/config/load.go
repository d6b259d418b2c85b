package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults keep the service runnable with zero external configuration.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.database_path", "data/birdstudy.db")
	v.SetDefault("storage.flag_path", "data/flags.json")
	v.SetDefault("storage.catalog_path", "data/birds.json")
	v.SetDefault("cache.name", "sayulita-birds")
	v.SetDefault("cache.version", "v5")
	v.SetDefault("cache.dir", "data/cache")
	v.SetDefault("cache.origin", "http://localhost:8081")
	v.SetDefault("download.batch_size", 3)

	// Optional config file in the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables with BIRDSTUDY_ prefix override everything,
	// e.g. BIRDSTUDY_SERVER_PORT=9090.
	v.SetEnvPrefix("BIRDSTUDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
