package sandbox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-sand/internal/particle"
)

func TestCommandsApplyBetweenTicks(t *testing.T) {
	s := newTestSim(t, 5, 5)
	require.NoError(t, s.Submit(Load([]byte(waterDoc), "water.yaml")))
	assert.Equal(t, particle.InvalidID, s.Registry().IDFromName("Water"), "nothing runs before Step")

	s.Step()
	water := s.Registry().IDFromName("Water")
	require.NotEqual(t, particle.InvalidID, water)

	require.NoError(t, s.Submit(Paint(2, 2, 1, water)))
	assert.Equal(t, 1, s.Pending())
	s.Step()
	assert.Equal(t, 0, s.Pending())
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			assert.Equal(t, water, s.ParticleAt(x, y).Type, "(%d,%d)", x, y)
		}
	}

	require.NoError(t, s.Submit(Remove("Water")))
	s.Step()
	assert.Equal(t, particle.InvalidID, s.Registry().IDFromName("Water"))
	assert.Equal(t, particle.EmptyID, s.ParticleAt(2, 2).Type)
}

func TestFailingCommandDoesNotStopQueue(t *testing.T) {
	s := newTestSim(t, 2, 2)
	require.NoError(t, s.Submit(Load([]byte("name: [broken"), "broken.yaml")))
	require.NoError(t, s.Submit(Paint(0, 0, 0, 42)))
	require.NoError(t, s.Submit(Load([]byte(waterDoc), "water.yaml")))
	s.Step()
	assert.NotEqual(t, particle.InvalidID, s.Registry().IDFromName("Water"))
}

func TestSubmitQueueFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.QueueSize = 2, 2, 1
	s := New(cfg, quietLogger())
	require.NoError(t, s.Submit(Restart(1)))
	assert.ErrorIs(t, s.Submit(Restart(2)), ErrQueueFull)
	assert.NoError(t, s.Submit(nil))
}

func TestSubmitFromManyGoroutines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.QueueSize = 8, 8, 64
	s := New(cfg, quietLogger())
	id, err := s.AddParticleType([]byte(waterDoc))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			for y := 0; y < 8; y++ {
				_ = s.Submit(Paint(x, y, 0, id))
			}
		}(i)
	}
	wg.Wait()
	s.Step()
	for _, p := range s.Cells() {
		require.Equal(t, id, p.Type)
	}
}
