package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/mail-priority-sorter/internal/core"
)

func sampleSettings() *core.Settings {
	settings := core.DefaultSettings()
	settings.AutoSort = false
	settings.Theme = core.ThemeDark
	settings.VIPList = []string{"alice@partner.org"}
	settings.IgnoreList = []string{"spam@"}
	settings.CustomRules = []core.Rule{{
		ID:      "r1",
		Name:    "Invoices",
		Enabled: true,
		Conditions: []core.Condition{
			{Field: core.FieldSubject, MatchMode: core.MatchRegex, Pattern: `invoice \d+`, CaseSensitive: true},
		},
		AssignedPriority: core.PriorityHigh,
		AssignedCategory: core.CategoryAction,
		ScoreDelta:       15,
	}, {
		ID:      "r2",
		Name:    "Newsletters",
		Enabled: true,
		Conditions: []core.Condition{
			{Field: core.FieldSender, MatchMode: core.MatchContains, Pattern: "Digest", CaseSensitive: false},
		},
		ScoreDelta: -15,
	}}
	return &settings
}

// exerciseStore runs the same round trip against every repository implementation
func exerciseStore(t *testing.T, store core.SettingsRepository) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "alice")
	require.ErrorIs(t, err, core.ErrSettingsNotFound)

	want := sampleSettings()
	require.NoError(t, store.Save(ctx, "alice", want))

	got, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	require.Len(t, got.CustomRules, 2)
	assert.Equal(t, -15, got.CustomRules[1].ScoreDelta)
	assert.False(t, got.CustomRules[1].Conditions[0].CaseSensitive)
	assert.True(t, got.CustomRules[0].Conditions[0].CaseSensitive)

	_, err = store.Get(ctx, "bob")
	assert.ErrorIs(t, err, core.ErrSettingsNotFound)

	want.Enabled = false
	require.NoError(t, store.Save(ctx, "alice", want))
	got, err = store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, got.Enabled)

	require.NoError(t, store.Delete(ctx, "alice"))
	_, err = store.Get(ctx, "alice")
	assert.ErrorIs(t, err, core.ErrSettingsNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(zaptest.NewLogger(t)))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(zaptest.NewLogger(t))

	saved := sampleSettings()
	require.NoError(t, store.Save(ctx, "p", saved))
	saved.VIPList[0] = "mallory@"

	got, err := store.Get(ctx, "p")
	require.NoError(t, err)
	got.IgnoreList[0] = "changed@"

	again, err := store.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "alice@partner.org", again.VIPList[0])
	assert.Equal(t, "spam@", again.IgnoreList[0])
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "settings.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(store.Stop)

	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")
	logger := zaptest.NewLogger(t)

	store, err := NewSQLiteStore(path, logger)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "default", sampleSettings()))
	store.Stop()

	reopened, err := NewSQLiteStore(path, logger)
	require.NoError(t, err)
	t.Cleanup(reopened.Stop)

	got, err := reopened.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, sampleSettings(), got)
}

func TestDecodeSettingsNormalizes(t *testing.T) {
	settings, err := decodeSettings([]byte(`{"enabled":true,"vipList":["a@"]}`))
	require.NoError(t, err)

	assert.True(t, settings.Enabled)
	assert.Equal(t, []string{"a@"}, settings.VIPList)
	assert.Equal(t, []string{}, settings.IgnoreList)
	assert.Equal(t, []core.Rule{}, settings.CustomRules)
	assert.Equal(t, core.ThemeAuto, settings.Theme)

	_, err = decodeSettings([]byte(`{"enabled":`))
	assert.Error(t, err)
}

func TestDecodeSettingsKeepsDefaultsForMissingFields(t *testing.T) {
	settings, err := decodeSettings([]byte(`{"vipList":["boss@"],"customRules":[{"id":"r","enabled":true,"conditions":[],"scoreBoost":-5}]}`))
	require.NoError(t, err)

	defaults := core.DefaultSettings()
	assert.Equal(t, defaults.Enabled, settings.Enabled)
	assert.Equal(t, defaults.AutoSort, settings.AutoSort)
	assert.Equal(t, defaults.ShowScores, settings.ShowScores)
	assert.Equal(t, defaults.ShowBadges, settings.ShowBadges)
	assert.Equal(t, core.ThemeAuto, settings.Theme)
	assert.Equal(t, []string{"boss@"}, settings.VIPList)
	require.Len(t, settings.CustomRules, 1)
	assert.Equal(t, -5, settings.CustomRules[0].ScoreDelta)

	settings, err = decodeSettings([]byte(`{"enabled":false}`))
	require.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.True(t, settings.AutoSort)
}

func TestEncodeSettingsUsesWireNames(t *testing.T) {
	data, err := encodeSettings(sampleSettings())
	require.NoError(t, err)

	for _, key := range []string{`"autoSort"`, `"vipList"`, `"customRules"`, `"matchType"`, `"value"`, `"scoreBoost"`} {
		assert.Contains(t, string(data), key)
	}
}
