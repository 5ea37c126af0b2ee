package settings

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mikey/mail-priority-sorter/internal/core"
)

// encodeSettings serialises settings into the document stored by the SQL stores
func encodeSettings(settings *core.Settings) ([]byte, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}

// decodeSettings parses a stored settings document over the defaults so
// fields missing from the document keep their default values
func decodeSettings(data []byte) (*core.Settings, error) {
	settings := core.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	settings.Normalize()
	return &settings, nil
}
