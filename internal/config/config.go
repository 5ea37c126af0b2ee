package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile creates a configuration instance, reading the given file when
// set and searching the default locations otherwise
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/mail-priority-sorter/")
		v.AddConfigPath("$HOME/.mail-priority-sorter")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("PRIORITY_SORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.filter_type", "smtp")
	v.SetDefault("server.listen_address", "0.0.0.0:10025")
	v.SetDefault("server.preview_size", 200)
	v.SetDefault("server.headers.priority", "X-Mail-Priority")
	v.SetDefault("server.headers.score", "X-Mail-Urgency-Score")
	v.SetDefault("server.headers.category", "X-Mail-Category")
	v.SetDefault("server.headers.reason", "X-Mail-Priority-Reason")
	v.SetDefault("server.modify_subject", false)
	v.SetDefault("server.subject_prefix", "")
	v.SetDefault("server.postfix.enabled", true)
	v.SetDefault("server.postfix.address", "127.0.0.1")
	v.SetDefault("server.postfix.port", 10026)

	// HTTP API defaults
	v.SetDefault("api.listen_address", "0.0.0.0:8080")
	v.SetDefault("api.debug", false)

	// Settings store defaults
	v.SetDefault("settings.store", "memory")
	v.SetDefault("settings.profile", "default")
	v.SetDefault("settings.sqlite_path", "/data/priority_settings.db")
	v.SetDefault("settings.mysql_dsn", "user:password@tcp(localhost:3306)/priority_sorter")
	v.SetDefault("settings.defaults.enabled", true)
	v.SetDefault("settings.defaults.auto_sort", true)
	v.SetDefault("settings.defaults.vip_list", []string{})
	v.SetDefault("settings.defaults.ignore_list", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
