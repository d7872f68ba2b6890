package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageDriver identifies the favorites persistence backend
type StorageDriver string

const (
	StorageDriverBolt   StorageDriver = "bolt"
	StorageDriverRedis  StorageDriver = "redis"
	StorageDriverMemory StorageDriver = "memory"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds TMDB connection settings
type CatalogConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	ImageBaseURL      string        `mapstructure:"image_base_url"`
	Language          string        `mapstructure:"language"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds favorites persistence settings
type StorageConfig struct {
	Driver        StorageDriver `mapstructure:"driver"` // "bolt", "redis" or "memory"
	Path          string        `mapstructure:"path"`   // bolt data directory
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultFeed string `mapstructure:"default_feed"`
	Browser     string `mapstructure:"browser"` // empty uses the system default
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p",
			Language:          "en-US",
			RequestsPerSecond: 20,
			Burst:             5,
			Timeout:           10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:      StorageDriverBolt,
			Path:        defaultDataPath(),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "reel:",
		},
		UI: UIConfig{
			DefaultFeed: "popular",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	return filepath.Join(defaultDataPath(), "reel.log")
}

// defaultDataPath returns the directory holding the favorites database
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reel")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	return readConfig(viper.GetViper())
}

// readConfig applies defaults and REEL_* overrides to whatever file v points at
func readConfig(v *viper.Viper) (*Config, error) {
	setDefaults(v, DefaultConfig())

	// Environment variable overrides, e.g. REEL_CATALOG_API_KEY
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so env overrides apply even without a file
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range configValues(cfg) {
		v.SetDefault(key, value)
	}
}

// configValues flattens cfg into viper keys (snake_case)
func configValues(cfg *Config) map[string]any {
	return map[string]any{
		"catalog.api_key":             cfg.Catalog.APIKey,
		"catalog.base_url":            cfg.Catalog.BaseURL,
		"catalog.image_base_url":      cfg.Catalog.ImageBaseURL,
		"catalog.language":            cfg.Catalog.Language,
		"catalog.requests_per_second": cfg.Catalog.RequestsPerSecond,
		"catalog.burst":               cfg.Catalog.Burst,
		"catalog.timeout":             cfg.Catalog.Timeout.String(),

		"storage.driver":         string(cfg.Storage.Driver),
		"storage.path":           cfg.Storage.Path,
		"storage.redis_addr":     cfg.Storage.RedisAddr,
		"storage.redis_password": cfg.Storage.RedisPassword,
		"storage.redis_db":       cfg.Storage.RedisDB,
		"storage.redis_prefix":   cfg.Storage.RedisPrefix,

		"ui.default_feed": cfg.UI.DefaultFeed,
		"ui.browser":      cfg.UI.Browser,

		"logging.file":  cfg.Logging.File,
		"logging.level": cfg.Logging.Level,
	}
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return writeConfig(viper.GetViper(), cfg, defaultConfigPath())
}

func writeConfig(v *viper.Viper, cfg *Config, configPath string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	for key, value := range configValues(cfg) {
		v.Set(key, value)
	}

	// The file holds the API key
	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(configFile, 0600); err != nil {
		return fmt.Errorf("failed to restrict config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if a catalog API key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.Catalog.APIKey) != ""
}

// ClearAPIKey removes the stored API key while preserving other settings
func ClearAPIKey(cfg *Config) error {
	cfg.Catalog.APIKey = ""
	return SaveConfig(cfg)
}

// ClearData removes the local data directory holding the favorites database
func ClearData(cfg *Config) error {
	if cfg.Storage.Path == "" {
		return nil
	}
	if err := os.RemoveAll(cfg.Storage.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	return nil
}
