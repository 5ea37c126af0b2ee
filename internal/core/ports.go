package core

import (
	"context"
)

// SettingsRepository defines the interface for persisting user settings
type SettingsRepository interface {
	// Get retrieves the settings stored for a profile
	Get(ctx context.Context, profile string) (*Settings, error)

	// Save stores the settings for a profile, replacing any previous value
	Save(ctx context.Context, profile string, settings *Settings) error

	// Delete removes the settings stored for a profile
	Delete(ctx context.Context, profile string) error
}
