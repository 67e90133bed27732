package sandbox

import (
	"errors"
	"fmt"

	"mad-sand/internal/particle"
)

// ErrQueueFull is returned by Submit when the command queue has no room.
var ErrQueueFull = errors.New("sandbox: command queue full")

// Command is a mutation applied by the simulation between ticks.
type Command func(s *Simulation) error

// Submit queues cmd for the start of the next Step. It never blocks and is
// safe to call from any goroutine.
func (s *Simulation) Submit(cmd Command) error {
	if cmd == nil {
		return nil
	}
	select {
	case s.queue <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued commands.
func (s *Simulation) Pending() int { return len(s.queue) }

func (s *Simulation) drain() {
	for {
		select {
		case cmd := <-s.queue:
			if err := cmd(s); err != nil {
				s.log.Error("command failed", "err", err)
			}
		default:
			return
		}
	}
}

// Load adds or replaces the type described by a rule document. Source names
// the document in errors.
func Load(data []byte, source string) Command {
	return func(s *Simulation) error {
		if _, err := s.AddParticleType(data); err != nil {
			return fmt.Errorf("load %s: %w", source, err)
		}
		return nil
	}
}

// Remove unregisters the named type.
func Remove(name string) Command {
	return func(s *Simulation) error { return s.RemoveParticleType(name) }
}

// Paint fills a square brush of the given radius centred on (x, y) with
// fresh particles of type id.
func Paint(x, y, radius int, id particle.ID) Command {
	return func(s *Simulation) error {
		if !s.reg.Valid(id) {
			return fmt.Errorf("paint: %w", particle.ErrNotFound)
		}
		radius = max(radius, 0)
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				s.grid.SetParticleAt(x+dx, y+dy, id)
			}
		}
		return nil
	}
}

// Restart resets the simulation with seed.
func Restart(seed int64) Command {
	return func(s *Simulation) error {
		s.Reset(seed)
		return nil
	}
}
