package core

import "time"

// maxCatchUp bounds how many ticks Pacer reports after a long stall.
const maxCatchUp = 4

// Pacer helps run simulation updates at a steady ticks-per-second rate when
// the caller owns the loop (the headless runner; ebiten paces the GUI).
type Pacer struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewPacer constructs a Pacer targeting the given TPS.
func NewPacer(tps int) *Pacer {
	p := &Pacer{now: time.Now}
	p.SetTPS(tps)
	return p
}

// SetTPS changes the tick rate. Non-positive values fall back to 60.
func (p *Pacer) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	p.step = time.Second / time.Duration(tps)
}

// Step returns the duration of a single tick.
func (p *Pacer) Step() time.Duration { return p.step }

// Due returns how many ticks should run now. After a stall the backlog is
// capped so the simulation does not spiral trying to catch up.
func (p *Pacer) Due() int {
	now := p.now()
	if p.last.IsZero() {
		p.last = now
		return 1
	}
	p.accumulator += now.Sub(p.last)
	p.last = now
	n := 0
	for p.accumulator >= p.step && n < maxCatchUp {
		p.accumulator -= p.step
		n++
	}
	if n == maxCatchUp {
		p.accumulator = 0
	}
	return n
}

// Wait sleeps until the next tick is due.
func (p *Pacer) Wait() {
	if p.last.IsZero() {
		return
	}
	remaining := p.step - p.accumulator - p.now().Sub(p.last)
	if remaining > 0 {
		time.Sleep(remaining)
	}
}
