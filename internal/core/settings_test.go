package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.True(t, settings.Enabled)
	assert.True(t, settings.AutoSort)
	assert.Equal(t, ThemeAuto, settings.Theme)
	assert.NotNil(t, settings.VIPList)
	assert.NotNil(t, settings.IgnoreList)
	assert.NotNil(t, settings.CustomRules)
}

func TestSettingsCloneIsDeep(t *testing.T) {
	original := DefaultSettings()
	original.VIPList = []string{"alice@"}
	original.CustomRules = []Rule{{
		ID:         "r1",
		Conditions: []Condition{{Field: FieldSubject, MatchMode: MatchContains, Pattern: "x"}},
	}}

	clone := original.Clone()
	clone.VIPList[0] = "mallory@"
	clone.CustomRules[0].Conditions[0].Pattern = "y"

	assert.Equal(t, "alice@", original.VIPList[0])
	assert.Equal(t, "x", original.CustomRules[0].Conditions[0].Pattern)
}

func TestSettingsNormalize(t *testing.T) {
	var settings Settings
	settings.Normalize()

	assert.Equal(t, []string{}, settings.VIPList)
	assert.Equal(t, []string{}, settings.IgnoreList)
	assert.Equal(t, []Rule{}, settings.CustomRules)
	assert.Equal(t, ThemeAuto, settings.Theme)
}

func TestSettingsPatchApply(t *testing.T) {
	settings := DefaultSettings()
	settings.VIPList = []string{"alice@"}

	disabled := false
	dark := ThemeDark
	ignore := []string{"spam@"}
	SettingsPatch{Enabled: &disabled, Theme: &dark, IgnoreList: &ignore}.Apply(&settings)

	assert.False(t, settings.Enabled)
	assert.True(t, settings.AutoSort, "unset fields are left alone")
	assert.Equal(t, ThemeDark, settings.Theme)
	assert.Equal(t, []string{"alice@"}, settings.VIPList)
	assert.Equal(t, []string{"spam@"}, settings.IgnoreList)

	ignore[0] = "changed@"
	assert.Equal(t, "spam@", settings.IgnoreList[0], "patch slices are copied")
}

func TestSettingsUserConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.VIPList = []string{"alice@"}
	settings.IgnoreList = []string{"bob@"}
	settings.CustomRules = []Rule{{ID: "r1"}}

	cfg := settings.UserConfig()
	assert.Equal(t, settings.VIPList, cfg.VIPIdentities)
	assert.Equal(t, settings.IgnoreList, cfg.IgnoredIdentities)
	require.Len(t, cfg.CustomRules, 1)
	assert.Equal(t, "r1", cfg.CustomRules[0].ID)
}

func TestSettingsValidate(t *testing.T) {
	settings := DefaultSettings()
	require.NoError(t, settings.Validate())

	settings.CustomRules = []Rule{{ID: "bad", Conditions: []Condition{{Field: "to", MatchMode: MatchContains}}}}
	assert.ErrorIs(t, settings.Validate(), ErrInvalidRule)
}
