package config

import "github.com/mikey/mail-priority-sorter/internal/core"

// ServerConfig represents the configuration of the mail-facing filter
type ServerConfig struct {
	FilterType    string
	ListenAddress string
	PreviewSize   int
	Headers       HeaderConfig
	ModifySubject bool
	SubjectPrefix string
	Postfix       PostfixConfig
}

// HeaderConfig names the headers added to tagged messages
type HeaderConfig struct {
	Priority string
	Score    string
	Category string
	Reason   string
}

// PostfixConfig represents the re-injection target for tagged messages
type PostfixConfig struct {
	Enabled bool
	Address string
	Port    int
}

// APIConfig represents the configuration for the HTTP API
type APIConfig struct {
	ListenAddress string
	Debug         bool
}

// SettingsStoreConfig represents the configuration for the settings store
type SettingsStoreConfig struct {
	Store      string
	Profile    string
	SQLitePath string
	MySQLDSN   string
}

// GetServer returns the filter server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:    c.GetString("server.filter_type"),
		ListenAddress: c.GetString("server.listen_address"),
		PreviewSize:   c.GetInt("server.preview_size"),
		Headers: HeaderConfig{
			Priority: c.GetString("server.headers.priority"),
			Score:    c.GetString("server.headers.score"),
			Category: c.GetString("server.headers.category"),
			Reason:   c.GetString("server.headers.reason"),
		},
		ModifySubject: c.GetBool("server.modify_subject"),
		SubjectPrefix: c.GetString("server.subject_prefix"),
		Postfix: PostfixConfig{
			Enabled: c.GetBool("server.postfix.enabled"),
			Address: c.GetString("server.postfix.address"),
			Port:    c.GetInt("server.postfix.port"),
		},
	}
}

// GetAPI returns the HTTP API configuration
func (c *Config) GetAPI() APIConfig {
	return APIConfig{
		ListenAddress: c.GetString("api.listen_address"),
		Debug:         c.GetBool("api.debug"),
	}
}

// GetSettingsStore returns the settings store configuration
func (c *Config) GetSettingsStore() SettingsStoreConfig {
	return SettingsStoreConfig{
		Store:      c.GetString("settings.store"),
		Profile:    c.GetString("settings.profile"),
		SQLitePath: c.GetString("settings.sqlite_path"),
		MySQLDSN:   c.GetString("settings.mysql_dsn"),
	}
}

// GetSettingsDefaults returns the settings used when the store is empty
func (c *Config) GetSettingsDefaults() core.Settings {
	defaults := core.DefaultSettings()
	defaults.Enabled = c.GetBool("settings.defaults.enabled")
	defaults.AutoSort = c.GetBool("settings.defaults.auto_sort")
	defaults.VIPList = c.GetStringSlice("settings.defaults.vip_list")
	defaults.IgnoreList = c.GetStringSlice("settings.defaults.ignore_list")
	defaults.Normalize()
	return defaults
}
