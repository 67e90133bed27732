package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-sand/internal/particle"
)

func TestLoadDefaults(t *testing.T) {
	s := newTestSim(t, 8, 8)
	require.NoError(t, s.LoadDefaults())
	assert.Len(t, DefaultRules(), 9)
	for _, name := range []string{"Sand", "Water", "Stone", "Wall", "Void", "Fire", "Smoke", "Cloud", "Plant"} {
		assert.NotEqual(t, particle.InvalidID, s.Registry().IDFromName(name), name)
	}
	assert.Empty(t, s.Unresolved(), "every default rule resolves once all are loaded")
}

func TestLoadDirOverridesAndSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("a_sand.yaml", "name: Sand\ncolor: [1, 2, 3]\n")
	write("b_glass.json", `{"name": "Glass", "color": "#c0e0f0"}`)
	write("c_broken.yml", "name: Broken\n")
	write("notes.txt", "not a rule")

	s := newTestSim(t, 4, 4)
	require.NoError(t, s.LoadDefaults())
	sand := s.Registry().IDFromName("Sand")

	err := s.LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c_broken.yml")

	assert.Equal(t, sand, s.Registry().IDFromName("Sand"))
	def, err := s.Registry().Definition(sand)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), def.Color.R)
	assert.NotEqual(t, particle.InvalidID, s.Registry().IDFromName("Glass"))
	assert.Equal(t, particle.InvalidID, s.Registry().IDFromName("Broken"))

	assert.Error(t, s.LoadDir(filepath.Join(dir, "missing")))
}

func TestIsRuleFile(t *testing.T) {
	assert.True(t, IsRuleFile("x/sand.yaml"))
	assert.True(t, IsRuleFile("SAND.YML"))
	assert.True(t, IsRuleFile("sand.json"))
	assert.False(t, IsRuleFile("sand.yaml~"))
	assert.False(t, IsRuleFile("README"))
}
