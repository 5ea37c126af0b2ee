package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/mail-priority-sorter/internal/adapters/settings"
	"github.com/mikey/mail-priority-sorter/internal/config"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"go.uber.org/zap"
)

// SettingsFactory creates settings repositories based on configuration
type SettingsFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSettingsFactory creates a new settings factory
func NewSettingsFactory(cfg *config.Config, logger *zap.Logger) *SettingsFactory {
	return &SettingsFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSettingsRepository creates a settings repository based on the configuration
func (f *SettingsFactory) CreateSettingsRepository() (core.SettingsRepository, error) {
	storeCfg := f.cfg.GetSettingsStore()

	switch storeCfg.Store {
	case "memory":
		return settings.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return settings.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return settings.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported settings store: %s", storeCfg.Store)
	}
}

// CreateService creates the priority sorter service on top of a repository
func (f *SettingsFactory) CreateService(store core.SettingsRepository) *core.PrioritySorterService {
	storeCfg := f.cfg.GetSettingsStore()
	defaults := f.cfg.GetSettingsDefaults()
	if len(defaults.VIPList) > 0 || len(defaults.IgnoreList) > 0 {
		f.logger.Info("Loaded default sender lists",
			zap.Strings("vip", defaults.VIPList),
			zap.Strings("ignore", defaults.IgnoreList))
	}
	return core.NewPrioritySorterService(store, f.logger, storeCfg.Profile, defaults)
}
