package settings

import (
	"context"
	"sync"

	"github.com/mikey/mail-priority-sorter/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the SettingsRepository interface
type MemoryStore struct {
	entries map[string]*core.Settings
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory settings store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*core.Settings),
		logger:  logger,
	}
}

// Get retrieves a copy of the settings stored for a profile
func (s *MemoryStore) Get(ctx context.Context, profile string) (*core.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.entries[profile]
	if !ok {
		return nil, core.ErrSettingsNotFound
	}
	return settings.Clone(), nil
}

// Save stores a copy of the settings for a profile
func (s *MemoryStore) Save(ctx context.Context, profile string, settings *core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[profile] = settings.Clone()
	s.logger.Debug("Stored settings in memory", zap.String("profile", profile))
	return nil
}

// Delete removes the settings stored for a profile
func (s *MemoryStore) Delete(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, profile)
	return nil
}
