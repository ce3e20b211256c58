package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	ws := t.TempDir()

	cfg, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, "unnamed", cfg.InstanceName)
	assert.Empty(t, cfg.InstanceID)

	// Load alone must not plant anything on disk.
	_, statErr := filepath.Glob(filepath.Join(Dir(ws), "*"))
	assert.NoError(t, statErr)
}

func TestEnsurePlantsOnce(t *testing.T) {
	ws := t.TempDir()

	cfg, err := Ensure(ws)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.InstanceID)
	assert.NotEmpty(t, cfg.PlantedAt)

	again, err := Ensure(ws)
	require.NoError(t, err)
	assert.Equal(t, cfg.InstanceID, again.InstanceID, "ensure must not re-plant an existing instance")
	assert.Equal(t, cfg.PlantedAt, again.PlantedAt)
}

func TestSaveRoundTrip(t *testing.T) {
	ws := t.TempDir()

	cfg := &Config{
		InstanceName: "sprout",
		InstanceID:   "id-123",
		PlantedAt:    "2024-03-01T00:00:00Z",
		Excavated:    true,
		RitualPrompts: map[string][]string{
			"breathing": {"What matters right now?"},
		},
	}
	require.NoError(t, cfg.Save(ws))

	loaded, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPathsLiveUnderInstanceDir(t *testing.T) {
	ws := t.TempDir()

	for _, p := range []string{
		GraphPath(ws),
		JournalPath(ws),
		RitualLogPath(ws),
		NotesDir(ws),
		ExcavationStatePath(ws),
	} {
		rel, err := filepath.Rel(Dir(ws), p)
		require.NoError(t, err)
		assert.NotContains(t, rel, "..", "%s escapes the instance directory", p)
	}
}
