package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacerDueCountsElapsedTicks(t *testing.T) {
	clock := time.Unix(0, 0)
	p := NewPacer(10)
	p.now = func() time.Time { return clock }

	assert.Equal(t, 1, p.Due(), "first call runs one tick immediately")

	clock = clock.Add(50 * time.Millisecond)
	assert.Equal(t, 0, p.Due())

	clock = clock.Add(60 * time.Millisecond)
	assert.Equal(t, 1, p.Due())

	clock = clock.Add(250 * time.Millisecond)
	assert.Equal(t, 2, p.Due())
}

func TestPacerCapsBacklog(t *testing.T) {
	clock := time.Unix(0, 0)
	p := NewPacer(100)
	p.now = func() time.Time { return clock }
	p.Due()

	clock = clock.Add(5 * time.Second)
	assert.Equal(t, maxCatchUp, p.Due())
	assert.Equal(t, 0, p.Due())
}

func TestPacerDefaultsTPS(t *testing.T) {
	p := NewPacer(0)
	assert.Equal(t, time.Second/60, p.Step())
}
