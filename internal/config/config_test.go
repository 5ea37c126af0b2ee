package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	server := cfg.GetServer()
	assert.Equal(t, "smtp", server.FilterType)
	assert.Equal(t, 200, server.PreviewSize)
	assert.Equal(t, "X-Mail-Priority", server.Headers.Priority)
	assert.Equal(t, "X-Mail-Urgency-Score", server.Headers.Score)
	assert.Equal(t, "X-Mail-Category", server.Headers.Category)
	assert.Equal(t, "X-Mail-Priority-Reason", server.Headers.Reason)
	assert.Equal(t, 10026, server.Postfix.Port)

	store := cfg.GetSettingsStore()
	assert.Equal(t, "memory", store.Store)
	assert.Equal(t, "default", store.Profile)

	defaults := cfg.GetSettingsDefaults()
	assert.True(t, defaults.Enabled)
	assert.True(t, defaults.AutoSort)
	assert.Empty(t, defaults.VIPList)
	assert.NotNil(t, defaults.VIPList)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  filter_type: http
  modify_subject: true
api:
  listen_address: 127.0.0.1:9090
settings:
  store: sqlite
  sqlite_path: /tmp/settings.db
  defaults:
    auto_sort: false
    vip_list:
      - ceo@company.com
logging:
  level: debug
`), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.GetServer().FilterType)
	assert.True(t, cfg.GetServer().ModifySubject)
	assert.Equal(t, "127.0.0.1:9090", cfg.GetAPI().ListenAddress)
	assert.Equal(t, "sqlite", cfg.GetSettingsStore().Store)
	assert.Equal(t, "/tmp/settings.db", cfg.GetSettingsStore().SQLitePath)
	assert.Equal(t, "debug", cfg.GetString("logging.level"))

	defaults := cfg.GetSettingsDefaults()
	assert.False(t, defaults.AutoSort)
	assert.True(t, defaults.Enabled)
	assert.Equal(t, []string{"ceo@company.com"}, defaults.VIPList)
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PRIORITY_SORTER_SETTINGS_PROFILE", "alice")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  store: memory\n"), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.GetSettingsStore().Profile)
}
