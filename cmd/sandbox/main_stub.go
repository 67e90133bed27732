//go:build !ebiten

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"mad-sand/internal/core"
	"mad-sand/internal/sandbox"
)

// Without the ebiten tag the sandbox runs headless: it advances the scene
// for -ticks ticks, paced at -tps, then prints a snapshot.
func main() {
	cfg, sim, cleanup, err := setup(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ran := run(ctx, sim, cfg.Ticks, cfg.TPS)
	slog.Info("headless run finished", "scene", sim.Name(), "ticks", ran)

	if err := sim.WriteASCII(os.Stdout); err != nil {
		log.Fatal(err)
	}
	for _, c := range sim.Population() {
		fmt.Printf("%-10s %6d\n", c.Name, c.Cells)
	}
}

// run steps sim until ticks have run or ctx is done. A non-positive tps
// runs unpaced.
func run(ctx context.Context, sim *sandbox.Simulation, ticks, tps int) int {
	var pacer *core.Pacer
	if tps > 0 {
		pacer = core.NewPacer(tps)
	}
	ran := 0
	for ran < ticks {
		if ctx.Err() != nil {
			return ran
		}
		due := 1
		if pacer != nil {
			pacer.Wait()
			due = pacer.Due()
		}
		for i := 0; i < due && ran < ticks; i++ {
			sim.Step()
			ran++
		}
	}
	return ran
}
