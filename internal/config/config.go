package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Download DownloadConfig `mapstructure:"download" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig contains the paths for the durable local stores: the SQLite
// database holding progress and settings, the flag file holding simple
// one-off markers, and the catalog document consumed read-only at startup.
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path" validate:"required"`
	FlagPath     string `mapstructure:"flag_path"     validate:"required"`
	CatalogPath  string `mapstructure:"catalog_path"  validate:"required"`
}

// CacheConfig configures the offline asset cache manager. Version qualifies
// the cache generation name; bumping it retires every previously stored
// generation on activation. Origin is the upstream the manager fetches
// assets and core files from.
type CacheConfig struct {
	Name    string `mapstructure:"name"    validate:"required"`
	Version string `mapstructure:"version" validate:"required"`
	Dir     string `mapstructure:"dir"     validate:"required"`
	Origin  string `mapstructure:"origin"  validate:"required,url"`
}

// DownloadConfig configures the bulk media prefetch.
type DownloadConfig struct {
	BatchSize int `mapstructure:"batch_size" validate:"required,gt=0"`
}
