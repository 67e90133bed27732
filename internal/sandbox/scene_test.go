package sandbox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-sand/internal/core"
)

func population(s *Simulation, name string) int {
	for _, c := range s.Population() {
		if c.Name == name {
			return c.Cells
		}
	}
	return 0
}

func TestScenesRegistered(t *testing.T) {
	names := core.Scenes()
	for _, want := range []string{"hourglass", "rain", "sandbox"} {
		assert.Contains(t, names, want)
	}
}

func TestHourglassConservesSand(t *testing.T) {
	sim, err := core.New("hourglass", map[string]string{"w": "40", "h": "30", "seed": "3"})
	require.NoError(t, err)
	s := sim.(*Simulation)
	assert.Equal(t, "hourglass", s.Name())
	assert.Equal(t, core.Size{W: 40, H: 30}, s.Size())

	sand := population(s, "Sand")
	walls := population(s, "Wall")
	require.Positive(t, sand)
	for i := 0; i < 60; i++ {
		s.Step()
	}
	assert.Equal(t, sand, population(s, "Sand"))
	assert.Equal(t, walls, population(s, "Wall"))
}

func TestSceneResetIsDeterministic(t *testing.T) {
	run := func() string {
		sim, err := core.New("sandbox", map[string]string{"w": "24", "h": "16"})
		require.NoError(t, err)
		s := sim.(*Simulation)
		s.Reset(11)
		for i := 0; i < 30; i++ {
			s.Step()
		}
		var buf bytes.Buffer
		require.NoError(t, s.WriteASCII(&buf))
		return buf.String()
	}
	assert.Equal(t, run(), run())
}

func TestRainFallsIntoVoid(t *testing.T) {
	sim, err := core.New("rain", map[string]string{"w": "40", "h": "20", "seed": "5"})
	require.NoError(t, err)
	s := sim.(*Simulation)
	clouds := population(s, "Cloud")
	assert.Equal(t, 40, clouds)
	for i := 0; i < 80; i++ {
		s.Step()
	}
	assert.Positive(t, population(s, "Water"))
	assert.Equal(t, clouds, population(s, "Cloud"))
	assert.Equal(t, 40, population(s, "Void"))
}

func TestWriteASCII(t *testing.T) {
	s := newTestSim(t, 3, 2)
	sand, err := s.AddParticleType([]byte(sandDoc))
	require.NoError(t, err)
	s.SetParticleAt(0, 0, sand)
	s.SetParticleAt(2, 1, sand)

	var buf bytes.Buffer
	require.NoError(t, s.WriteASCII(&buf))
	assert.Equal(t, "S..\n..S\n", buf.String())
	assert.Equal(t, []Count{{Name: "Sand", ID: sand, Cells: 2}}, s.Population())
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{"w": "64", "h": "-1", "seed": "x", "rules": "dir", "defaults": "false", "queue": "8"})
	assert.Equal(t, 64, c.Width)
	assert.Equal(t, DefaultConfig().Height, c.Height)
	assert.Equal(t, DefaultConfig().Seed, c.Seed)
	assert.Equal(t, "dir", c.Rules)
	assert.False(t, c.Defaults)
	assert.Equal(t, 8, c.QueueSize)
	assert.Equal(t, DefaultConfig(), FromMap(nil))
}
